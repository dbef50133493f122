package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamegraph/graphdb"
)

const catalog = `appid,name,release_date,english,developer,publisher,platforms,required_age,categories,genres,steamspy_tags,achievements,positive_ratings,negative_ratings,average_playtime,median_playtime,owners,price
10,Counter-Strike,2000-11-01,1,Valve,Valve,windows;mac;linux,0,Multi-player;Online Multi-Player,Action,Action;FPS;Multiplayer,0,124534,3339,17612,317,10000000-20000000,7.19
20,Team Fortress Classic,1999-04-01,1,Valve,Valve,windows;mac;linux,0,Multi-player,Action,Action;FPS,0,3318,633,277,62,5000000-10000000,3.99
30,Jeu Francais,2004-01-01,0,Studio,Studio,windows,0,Single-player,Adventure,Adventure,0,10,1,0,0,0-20000,1.99
40,Co-op Thing,2010-01-01,1,Alpha/Beta Games,Alpha,windows,0,Single-player/Co-op,Indie;Action,Indie,0,0,0,0,0,0-20000,0
50,Broken Price,2010-01-01,1,Studio,Studio,windows,0,Single-player,Indie,Indie,0,5,5,0,0,0-20000,free
`

func TestReadRecords(t *testing.T) {
	records, sum, err := ReadRecords(strings.NewReader(catalog))
	require.NoError(t, err)

	assert.Equal(t, Summary{Rows: 5, Accepted: 3, NonEnglish: 1, Invalid: 1}, sum)
	require.Len(t, records, 3)

	cs := records[0]
	assert.Equal(t, "Counter-Strike", cs.Name)
	assert.Equal(t, []string{"Valve"}, cs.Developers)
	assert.Equal(t, []string{"windows", "mac", "linux"}, cs.Platforms)
	assert.Equal(t, []string{"Multi-player", "Online Multi-Player"}, cs.Categories)
	assert.Equal(t, []string{"Action", "FPS", "Multiplayer"}, cs.Tags)
	assert.Equal(t, 7.19, cs.Price)
	assert.InDelta(t, 124534.0/(124534+3339)*100, cs.RatingScore, 1e-9)

	coop := records[2]
	assert.Equal(t, []string{"Alpha", "Beta Games"}, coop.Developers, "slash separates attributes")
	assert.Equal(t, []string{"Single-player", "Co-op"}, coop.Categories)
	assert.Equal(t, []string{"Indie", "Action"}, coop.Genres)
	assert.Zero(t, coop.RatingScore, "a game without ratings scores 0")
}

func TestReadRecordsMissingColumns(t *testing.T) {
	_, _, err := ReadRecords(strings.NewReader("name,english\nPortal,1\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, graphdb.ErrInvalidArgument))
	assert.Contains(t, err.Error(), "steamspy_tags")
}

func TestReadRecordsEmpty(t *testing.T) {
	_, _, err := ReadRecords(strings.NewReader(""))
	assert.True(t, errors.Is(err, graphdb.ErrInvalidArgument))
}

func TestRatingScore(t *testing.T) {
	tests := []struct {
		name               string
		positive, negative int
		want               float64
	}{
		{"all positive", 10, 0, 100},
		{"all negative", 0, 10, 0},
		{"mixed", 3, 1, 75},
		{"no ratings", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RatingScore(tt.positive, tt.negative), 1e-9)
		})
	}
}

func TestSplitAttributes(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"Action;FPS", []string{"Action", "FPS"}},
		{"Alpha/Beta", []string{"Alpha", "Beta"}},
		{" Indie ; ;RPG ", []string{"Indie", "RPG"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitAttributes(tt.input))
		})
	}
}

func TestBuild(t *testing.T) {
	records, _, err := ReadRecords(strings.NewReader(catalog))
	require.NoError(t, err)

	g, err := Build(records)
	require.NoError(t, err)

	assert.True(t, g.HasVertex("Counter-Strike", graphdb.KindGame))
	assert.False(t, g.HasVertex("Jeu Francais", graphdb.KindGame), "non-English games are skipped")
	assert.True(t, g.Adjacent("Counter-Strike", graphdb.KindGame, "Valve", graphdb.KindDeveloper))
	assert.True(t, g.Adjacent("Counter-Strike", graphdb.KindGame, "Action", graphdb.KindGenre))
	assert.True(t, g.Adjacent("Counter-Strike", graphdb.KindGame, "Action", graphdb.KindTag))
	assert.True(t, g.Adjacent("Co-op Thing", graphdb.KindGame, "Beta Games", graphdb.KindDeveloper))

	valve, err := g.Neighbours("Valve", graphdb.KindDeveloper)
	require.NoError(t, err)
	assert.Equal(t, []graphdb.Key{graphdb.GameKey("Counter-Strike"), graphdb.GameKey("Team Fortress Classic")}, valve)

	recs, err := g.RecommendMultipleGames([]string{"Counter-Strike"}, 5, graphdb.AttributeKinds, graphdb.Filter{})
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	assert.Equal(t, "Team Fortress Classic", recs[0])
}

func TestLoadGameGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steam.csv")
	require.NoError(t, os.WriteFile(path, []byte(catalog), 0o644))

	g, err := LoadGameGraph(path)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Stats().ByKind["game"])

	_, err = LoadGameGraph(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "--data")
}
