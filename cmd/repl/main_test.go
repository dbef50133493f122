package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamegraph/display"
	"gamegraph/graphdb"
)

func init() {
	pterm.DisableStyling()
}

func testDB(t *testing.T) *graphdb.GameDB {
	t.Helper()
	g := graphdb.NewGraph()
	add := func(title string, info graphdb.GameInfo, attrs ...graphdb.Key) {
		g.AddGame(title, info)
		for _, a := range attrs {
			g.AddVertex(a.Item, a.Kind)
			require.NoError(t, g.AddEdge(title, graphdb.KindGame, a.Item, a.Kind))
		}
	}
	valve := graphdb.Key{Item: "Valve", Kind: graphdb.KindDeveloper}
	puzzle := graphdb.Key{Item: "Puzzle", Kind: graphdb.KindGenre}

	add("Portal", graphdb.GameInfo{Price: 9.99, RatingScore: 97, Platforms: []string{"windows", "mac"}}, valve, puzzle)
	add("Portal 2", graphdb.GameInfo{Price: 19.99, RatingScore: 98, Platforms: []string{"windows", "linux"}}, valve, puzzle)
	add("Braid", graphdb.GameInfo{Price: 14.99, RatingScore: 90, Platforms: []string{"mac"}}, puzzle)
	return graphdb.NewGameDB(g, graphdb.Options{DefaultLimit: 5})
}

func newTestRepl(t *testing.T, input string) (*replState, *bytes.Buffer) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	var out bytes.Buffer
	return newReplState(testDB(t), display.FormatText, strings.NewReader(input), &out, logger), &out
}

func TestProcessCommand(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{"help", ".help", []string{"RECOMMEND", ".ask"}, false},
		{"blank line", "   ", nil, false},
		{"recommend", `RECOMMEND "Portal" LIMIT 1`, []string{"1 Portal 2", "\tprice: 19.99"}, false},
		{"recommend with no results", `RECOMMEND "Portal" MAXPRICE 1`, []string{"No games found based on input, try again."}, false},
		{"similarity", `SIMILARITY "Portal", "Braid"`, []string{"similarity: 0.5000"}, false},
		{"neighbours", `NEIGHBOURS developer "Valve"`, []string{"game: Portal", "game: Portal 2"}, false},
		{"show", `SHOW "Braid"`, []string{"1 Braid", "genre: Puzzle"}, false},
		{"stats", "STATS", []string{"vertices: 5", "edges: 5", "game: 3"}, false},
		{"unknown command", ".drop", nil, true},
		{"bad query", `RECOMMEND "Nope"`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, out := newTestRepl(t, "")
			err := rs.processCommand(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out.String(), want)
			}
			assert.True(t, rs.isRunning)
		})
	}
}

func TestExitCommands(t *testing.T) {
	for _, cmd := range []string{".exit", "quit", ".EXIT"} {
		rs, _ := newTestRepl(t, "")
		require.NoError(t, rs.processCommand(cmd))
		assert.False(t, rs.isRunning, cmd)
	}
}

func TestRunREPL(t *testing.T) {
	rs, out := newTestRepl(t, "STATS\n.bogus\nquit\nSTATS\n")
	rs.runREPL()

	assert.Contains(t, out.String(), "vertices: 5")
	assert.Contains(t, out.String(), "Error: unknown command: .bogus")
	assert.Equal(t, 1, strings.Count(out.String(), "vertices: 5"), "nothing runs after quit")
	assert.Contains(t, out.String(), "Goodbye!")
	assert.Equal(t, 1, rs.queryNum)
}

func TestPrintErrorShowsHint(t *testing.T) {
	rs, out := newTestRepl(t, "")
	err := rs.processCommand(`RECOMMEND "portal"`)
	require.Error(t, err)
	rs.printError(err)
	assert.Contains(t, out.String(), "Hint: game titles are case-sensitive")
}

func TestAsk(t *testing.T) {
	answers := strings.Join([]string{
		"portal, Nope",    // invalid titles are reported and asked again
		"Portal",          // games
		"genre, bogus",    // kinds: unknown names are dropped
		"zero",            // limit: not a number
		"2",               // limit
		"-3",              // max price: negative
		"",                // max price: none
		"windows, switch", // platforms: unknown platform
		"mac",             // platforms
		"",                // min rating: none
	}, "\n") + "\n"

	rs, out := newTestRepl(t, answers)
	require.NoError(t, rs.ask())

	got := out.String()
	assert.Contains(t, got, "Invalid game input: portal, please try again.")
	assert.Contains(t, got, "Invalid game input: Nope, please try again.")
	assert.Contains(t, got, "Please type in a positive whole number.")
	assert.Contains(t, got, "Please type in a number of at least 0, or press enter.")
	assert.Contains(t, got, "Please type in windows, mac, or linux.")
	assert.Contains(t, got, "1 Braid")
	assert.NotContains(t, got, "Portal 2\n", "Portal 2 is not on mac")
}

func TestAskKindsDefaultToAll(t *testing.T) {
	rs, _ := newTestRepl(t, "publisher\n")
	kinds, err := rs.askKinds()
	require.NoError(t, err)
	assert.Equal(t, graphdb.AttributeKinds, kinds)

	rs, _ = newTestRepl(t, "\n")
	kinds, err = rs.askKinds()
	require.NoError(t, err)
	assert.Equal(t, graphdb.AttributeKinds, kinds)
}

func TestAskMinRatingRange(t *testing.T) {
	rs, out := newTestRepl(t, "150\n80\n")
	bound, err := rs.askBound("min rating?", 0, 100)
	require.NoError(t, err)
	require.NotNil(t, bound)
	assert.Equal(t, 80.0, *bound)
	assert.Contains(t, out.String(), "Please type in a number from 0 to 100, or press enter.")
}

func TestRunGuided(t *testing.T) {
	round := "Portal\n\n1\n\n\n\n"
	rs, out := newTestRepl(t, round+"maybe\nyes\n"+round+"no\n")
	rs.runGuided()

	got := out.String()
	assert.Equal(t, 2, strings.Count(got, "1 Portal 2"), "two rounds were answered")
	assert.Contains(t, got, "Sorry, I don't understand your input")
	assert.Contains(t, got, "=================================================")
	assert.Contains(t, got, "Goodbye!")
}

func TestRunGuidedStopsAtEndOfInput(t *testing.T) {
	rs, out := newTestRepl(t, "Portal\n")
	rs.runGuided()
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestAskCommandAtEndOfInput(t *testing.T) {
	rs, _ := newTestRepl(t, "")
	require.NoError(t, rs.processCommand(".ask"))
	assert.False(t, rs.isRunning)
}
