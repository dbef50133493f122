package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"

	"gamegraph/display"
	"gamegraph/graphdb"
)

// replState holds the state of the REPL
type replState struct {
	db        *graphdb.GameDB
	format    display.Format
	in        *bufio.Scanner
	out       io.Writer
	logger    *logrus.Logger
	queryNum  int
	isRunning bool
}

// newReplState initializes the REPL state
func newReplState(db *graphdb.GameDB, format display.Format, in io.Reader, out io.Writer, logger *logrus.Logger) *replState {
	return &replState{
		db:        db,
		format:    format,
		in:        bufio.NewScanner(in),
		out:       out,
		logger:    logger,
		queryNum:  0,
		isRunning: true,
	}
}

// executeQuery executes a query statement
func (rs *replState) executeQuery(query string) error {
	rs.queryNum++
	log := rs.logger.WithFields(logrus.Fields{
		"component": "Main",
		"query":     query,
		"query_num": rs.queryNum,
	})
	log.Debug("Executing query")
	res, err := rs.db.ExecuteQuery(query)
	if err != nil {
		return errors.Wrap(err, "query execution failed")
	}
	return rs.printResult(res)
}

// printResult writes a statement result in the configured format
func (rs *replState) printResult(res *graphdb.Result) error {
	g := rs.db.Graph()
	switch res.Type {
	case graphdb.StmtRecommend:
		return rs.printRecommendations(res.Ranked)
	case graphdb.StmtSimilarity:
		fmt.Fprintf(rs.out, "similarity: %.4f\n", *res.Similarity)
	case graphdb.StmtNeighbours:
		if len(res.Neighbours) == 0 {
			fmt.Fprintln(rs.out, "No neighbours")
			return nil
		}
		for _, key := range res.Neighbours {
			fmt.Fprintf(rs.out, "  %s: %s\n", key.Kind, key.Item)
		}
	case graphdb.StmtShow:
		if err := display.Render(rs.out, rs.format, g, []string{res.Game.Title}); err != nil {
			return err
		}
		for _, key := range res.Game.Attributes {
			fmt.Fprintf(rs.out, "\t%s: %s\n", key.Kind, key.Item)
		}
	case graphdb.StmtStats:
		fmt.Fprintf(rs.out, "vertices: %d\nedges: %d\n", res.Stats.Vertices, res.Stats.Edges)
		for _, name := range (graphdb.AttributeKinds | graphdb.NewKindSet(graphdb.KindGame)).Names() {
			fmt.Fprintf(rs.out, "  %s: %d\n", name, res.Stats.ByKind[name])
		}
	}
	return nil
}

// printRecommendations renders ranked games or the empty-result notice
func (rs *replState) printRecommendations(ranked []graphdb.RankedGame) error {
	if len(ranked) == 0 {
		fmt.Fprintln(rs.out, "No games found based on input, try again.")
		return nil
	}
	titles := make([]string, len(ranked))
	for i, rg := range ranked {
		titles[i] = rg.Title
	}
	return display.Render(rs.out, rs.format, rs.db.Graph(), titles)
}

// printError writes err and any hints attached to it
func (rs *replState) printError(err error) {
	fmt.Fprintln(rs.out, pterm.Red("Error: "+err.Error()))
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintln(rs.out, pterm.Yellow("Hint: "+hint))
	}
}

// printHelp displays the help message
func (rs *replState) printHelp() {
	fmt.Fprintln(rs.out, "Game Graph REPL Commands:")
	fmt.Fprintln(rs.out, "  .help                     Show this help message")
	fmt.Fprintln(rs.out, "  .ask                      Answer a few questions to get recommendations")
	fmt.Fprintln(rs.out, "  .exit                     Exit the REPL")
	fmt.Fprintln(rs.out, "Queries:")
	fmt.Fprintln(rs.out, `  RECOMMEND "Portal", "Half-Life" BY genre, tag LIMIT 5 MAXPRICE 20 MINRATING 80 ON windows, mac`)
	fmt.Fprintln(rs.out, `  SIMILARITY "Portal", "Portal 2" BY developer`)
	fmt.Fprintln(rs.out, `  NEIGHBOURS genre "Action"`)
	fmt.Fprintln(rs.out, `  SHOW "Portal"`)
	fmt.Fprintln(rs.out, "  STATS")
	fmt.Fprintln(rs.out, "Titles are case-sensitive. Type '.exit' or 'quit' to exit.")
}

// processCommand processes a REPL command or query
func (rs *replState) processCommand(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	command := strings.ToLower(input)
	switch command {
	case ".help":
		rs.printHelp()
		return nil
	case ".exit", "quit":
		rs.isRunning = false
		return nil
	case ".ask":
		err := rs.ask()
		if errors.Is(err, io.EOF) {
			rs.isRunning = false
			return nil
		}
		return err
	}
	if strings.HasPrefix(command, ".") {
		return errors.Newf("unknown command: %s; type '.help' for assistance", input)
	}

	return rs.executeQuery(input)
}

// runREPL runs the REPL loop
func (rs *replState) runREPL() {
	rs.logger.WithField("component", "Main").Info("Starting Game Graph REPL")
	fmt.Fprintln(rs.out, "Welcome to the Steam games recommendation REPL. Type '.help' for commands or 'quit' to exit.")

	for rs.isRunning {
		fmt.Fprint(rs.out, "gamegraph> ")
		if !rs.in.Scan() {
			break
		}
		if err := rs.processCommand(rs.in.Text()); err != nil {
			rs.printError(err)
		}
	}
	fmt.Fprintln(rs.out, "Goodbye!")
}
