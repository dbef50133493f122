// Package display renders recommended games for a terminal.
package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"

	"gamegraph/graphdb"
)

// Format selects how results are rendered
type Format string

const (
	FormatTable Format = "table"
	FormatText  Format = "text"
)

// ParseFormat converts a configured format name to a Format
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatTable, FormatText:
		return f, nil
	default:
		return "", errors.Wrapf(graphdb.ErrInvalidArgument, "unknown display format %q", name)
	}
}

// Render writes titles to w in the given format
func Render(w io.Writer, format Format, g *graphdb.Graph, titles []string) error {
	switch format {
	case FormatText:
		return Text(w, g, titles)
	case FormatTable:
		out, err := Table(g, titles)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return errors.Wrapf(graphdb.ErrInvalidArgument, "unknown display format %q", format)
	}
}

// Text prints each game as a numbered line followed by its price, rating
// score and platforms
func Text(w io.Writer, g *graphdb.Graph, titles []string) error {
	games, err := lookup(g, titles)
	if err != nil {
		return err
	}
	for i, game := range games {
		_, err := fmt.Fprintf(w, "%d %s\n\tprice: %s\n\trating_score: %s\n\tplatform: %s\n",
			i+1, game.Title(), formatFloat(game.Price), formatFloat(game.RatingScore),
			strings.Join(game.Platforms, ", "))
		if err != nil {
			return errors.Wrap(err, "write result")
		}
	}
	return nil
}

// Table renders the games as a table with a header row
func Table(g *graphdb.Graph, titles []string) (string, error) {
	games, err := lookup(g, titles)
	if err != nil {
		return "", err
	}
	data := pterm.TableData{{"Rank", "Title", "Price", "Rating", "Platforms"}}
	for i, game := range games {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			game.Title(),
			formatFloat(game.Price),
			strconv.FormatFloat(game.RatingScore, 'f', 1, 64),
			strings.Join(game.Platforms, ", "),
		})
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", errors.Wrap(err, "render table")
	}
	return out + "\n", nil
}

func lookup(g *graphdb.Graph, titles []string) ([]*graphdb.GameVertex, error) {
	games := make([]*graphdb.GameVertex, 0, len(titles))
	for _, title := range titles {
		game, err := g.Game(title)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
