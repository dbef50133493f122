package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamegraph/graphdb"
)

func init() {
	pterm.DisableStyling()
}

func testGraph() *graphdb.Graph {
	g := graphdb.NewGraph()
	g.AddGame("Portal", graphdb.GameInfo{Price: 9.99, RatingScore: 97.5, Platforms: []string{"windows", "mac"}})
	g.AddGame("Dota 2", graphdb.GameInfo{Price: 0, RatingScore: 85.8, Platforms: []string{"windows", "mac", "linux"}})
	return g
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, testGraph(), []string{"Portal", "Dota 2"}))

	want := "1 Portal\n" +
		"\tprice: 9.99\n" +
		"\trating_score: 97.5\n" +
		"\tplatform: windows, mac\n" +
		"2 Dota 2\n" +
		"\tprice: 0\n" +
		"\trating_score: 85.8\n" +
		"\tplatform: windows, mac, linux\n"
	assert.Equal(t, want, buf.String())
}

func TestTable(t *testing.T) {
	out, err := Table(testGraph(), []string{"Dota 2", "Portal"})
	require.NoError(t, err)

	for _, want := range []string{"Rank", "Title", "Price", "Rating", "Platforms", "85.8", "9.99", "windows, mac, linux"} {
		assert.Contains(t, out, want)
	}
	header := strings.Index(out, "Rank")
	dota := strings.Index(out, "Dota 2")
	portal := strings.Index(out, "Portal")
	assert.Less(t, header, dota)
	assert.Less(t, dota, portal, "rows keep the given order")
}

func TestMissingTitle(t *testing.T) {
	var buf bytes.Buffer
	err := Text(&buf, testGraph(), []string{"Portal", "Nope"})
	assert.True(t, errors.Is(err, graphdb.ErrNotFound))
	assert.Empty(t, buf.String(), "nothing is printed when a title is missing")

	_, err = Table(testGraph(), []string{"Nope"})
	assert.True(t, errors.Is(err, graphdb.ErrNotFound))
}

func TestRender(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatText, "1 Portal\n"},
		{FormatTable, "Portal"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, tt.format, testGraph(), []string{"Portal"}))
			assert.Contains(t, buf.String(), tt.want)
		})
	}

	var buf bytes.Buffer
	assert.True(t, errors.Is(Render(&buf, Format("html"), testGraph(), nil), graphdb.ErrInvalidArgument))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" Table ")
	require.NoError(t, err)
	assert.Equal(t, FormatTable, f)

	_, err = ParseFormat("html")
	assert.True(t, errors.Is(err, graphdb.ErrInvalidArgument))
}
