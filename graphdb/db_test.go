package graphdb

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteQuery(t *testing.T) {
	db := NewGameDB(rankingGraph(t), Options{DefaultLimit: 1})

	t.Run("recommend uses default limit", func(t *testing.T) {
		res, err := db.ExecuteQuery(`RECOMMEND "A", "B"`)
		require.NoError(t, err)
		assert.Equal(t, StmtRecommend, res.Type)
		require.Len(t, res.Ranked, 1)
		assert.Equal(t, "D", res.Ranked[0].Title)
	})

	t.Run("recommend with clauses", func(t *testing.T) {
		res, err := db.ExecuteQuery(`RECOMMEND "A", "B" LIMIT 5 MAXPRICE 10`)
		require.NoError(t, err)
		require.Len(t, res.Ranked, 1)
		assert.Equal(t, "F", res.Ranked[0].Title)
	})

	t.Run("recommend with no results", func(t *testing.T) {
		res, err := db.ExecuteQuery(`RECOMMEND "A" ON mac`)
		require.NoError(t, err)
		assert.Empty(t, res.Ranked)
	})

	t.Run("similarity", func(t *testing.T) {
		res, err := db.ExecuteQuery(`SIMILARITY "A", "B"`)
		require.NoError(t, err)
		require.NotNil(t, res.Similarity)
		assert.InDelta(t, 1.0/3, *res.Similarity, 1e-9)

		res, err = db.ExecuteQuery(`SIMILARITY "A", "B" BY developer`)
		require.NoError(t, err)
		assert.Equal(t, 1.0, *res.Similarity)
	})

	t.Run("neighbours", func(t *testing.T) {
		res, err := db.ExecuteQuery(`NEIGHBOURS genre "Y"`)
		require.NoError(t, err)
		assert.Equal(t, []Key{GameKey("A"), GameKey("D"), GameKey("F")}, res.Neighbours)
	})

	t.Run("show", func(t *testing.T) {
		res, err := db.ExecuteQuery(`SHOW "F"`)
		require.NoError(t, err)
		require.NotNil(t, res.Game)
		assert.Equal(t, "F", res.Game.Title)
		assert.Equal(t, 1.0, res.Game.Price)
		assert.Equal(t, []Key{{"Y", KindGenre}, {"T", KindTag}}, res.Game.Attributes)
	})

	t.Run("stats", func(t *testing.T) {
		res, err := db.ExecuteQuery(`STATS`)
		require.NoError(t, err)
		require.NotNil(t, res.Stats)
		assert.Equal(t, 4, res.Stats.ByKind["game"])
		assert.Equal(t, "STATS", res.Statement)
	})
}

func TestExecuteQueryErrors(t *testing.T) {
	db := NewGameDB(rankingGraph(t), Options{})

	tests := []struct {
		name    string
		query   string
		wantErr error
	}{
		{"syntax", `RECOMMEND`, ErrInvalidArgument},
		{"tokenizer", `SHOW "A`, ErrInvalidArgument},
		{"unknown kind", `RECOMMEND "A" BY publisher`, ErrInvalidArgument},
		{"game kind", `SIMILARITY "A", "B" BY game`, ErrInvalidArgument},
		{"unknown neighbour kind", `NEIGHBOURS studio "X"`, ErrInvalidArgument},
		{"missing game", `SHOW "Nope"`, ErrNotFound},
		{"missing input", `RECOMMEND "A", "Nope"`, ErrNotFound},
		{"missing attribute", `NEIGHBOURS tag "Nope"`, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.ExecuteQuery(tt.query)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestGameDBRunQueryDefaults(t *testing.T) {
	db := NewGameDB(rankingGraph(t), Options{DefaultLimit: 1, DefaultKinds: NewKindSet(KindGenre)})
	assert.Equal(t, 1, db.DefaultLimit())
	assert.Equal(t, NewKindSet(KindGenre), db.DefaultKinds())

	resp, err := db.RunQuery(Request{Games: []string{"A"}})
	require.NoError(t, err)
	// Genres only: F's single genre is A's, D shares half of its genres, B none.
	assert.Equal(t, []string{"F"}, resp.Titles())

	zero := NewGameDB(rankingGraph(t), Options{})
	assert.Equal(t, DefaultLimit, zero.DefaultLimit())
	assert.Equal(t, AttributeKinds, zero.DefaultKinds())
}
