package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"gamegraph/graphdb"
)

var knownPlatforms = []string{"windows", "mac", "linux"}

// prompt prints question and returns the trimmed answer. It returns io.EOF
// once the input is exhausted.
func (rs *replState) prompt(question string) (string, error) {
	fmt.Fprintln(rs.out, question)
	if !rs.in.Scan() {
		if err := rs.in.Err(); err != nil {
			return "", errors.Wrap(err, "read answer")
		}
		return "", io.EOF
	}
	return strings.TrimSpace(rs.in.Text()), nil
}

// ask runs one round of the guided questions and prints the recommendations
func (rs *replState) ask() error {
	games, err := rs.askGames()
	if err != nil {
		return err
	}
	kinds, err := rs.askKinds()
	if err != nil {
		return err
	}
	limit, err := rs.askLimit()
	if err != nil {
		return err
	}
	maxPrice, err := rs.askBound("Is there a maximum price you would like to set? If not press enter.", 0, -1)
	if err != nil {
		return err
	}
	platforms, err := rs.askPlatforms()
	if err != nil {
		return err
	}
	minRating, err := rs.askBound("Is there a minimum rating score you would like to set? It can be from 0 to 100. If not press enter.", 0, 100)
	if err != nil {
		return err
	}

	rs.queryNum++
	rs.logger.WithFields(logrus.Fields{
		"component": "Main",
		"games":     games,
		"kinds":     kinds.String(),
		"limit":     limit,
		"query_num": rs.queryNum,
	}).Debug("Running guided query")

	resp, err := rs.db.RunQuery(graphdb.Request{
		Games: games,
		Kinds: kinds,
		Limit: limit,
		Filter: graphdb.Filter{
			MaxPrice:  maxPrice,
			Platforms: platforms,
			MinRating: minRating,
		},
	})
	if err != nil {
		return err
	}
	return rs.printRecommendations(resp.Games)
}

// askGames asks until every listed title is in the catalog
func (rs *replState) askGames() ([]string, error) {
	for {
		answer, err := rs.prompt("Please type in the games you have played, separated by commas.")
		if err != nil {
			return nil, err
		}
		var games []string
		for _, title := range strings.Split(answer, ",") {
			if title = strings.TrimSpace(title); title != "" {
				games = append(games, title)
			}
		}
		if len(games) == 0 {
			fmt.Fprintln(rs.out, "Please type in at least one game.")
			continue
		}

		valid := true
		for _, title := range games {
			if !rs.db.Graph().HasVertex(title, graphdb.KindGame) {
				fmt.Fprintf(rs.out, "Invalid game input: %s, please try again.\n", title)
				valid = false
			}
		}
		if valid {
			return games, nil
		}
		fmt.Fprintln(rs.out, "Titles must match the Steam store name exactly, including capitals and symbols.")
	}
}

// askKinds reads the attribute kinds to compare. Unrecognized names are
// dropped; nothing recognized means every kind.
func (rs *replState) askKinds() (graphdb.KindSet, error) {
	answer, err := rs.prompt("Please type in the categories you want to compare. [category, genre, tag, developer]")
	if err != nil {
		return 0, err
	}
	kinds, _ := graphdb.ParseKindSet(strings.Split(answer, ","))
	kinds &= graphdb.AttributeKinds
	if kinds.IsEmpty() {
		kinds = graphdb.AttributeKinds
	}
	return kinds, nil
}

// askLimit asks until a positive whole number is given
func (rs *replState) askLimit() (int, error) {
	for {
		answer, err := rs.prompt("How many games would you like to see? Please type in a number.")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 {
			return n, nil
		}
		fmt.Fprintln(rs.out, "Please type in a positive whole number.")
	}
}

// askBound reads an optional number within [lo, hi]. A negative hi means no
// upper bound. An empty answer gives nil.
func (rs *replState) askBound(question string, lo, hi float64) (*float64, error) {
	for {
		answer, err := rs.prompt(question)
		if err != nil {
			return nil, err
		}
		if answer == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(answer, 64)
		if err == nil && v >= lo && (hi < 0 || v <= hi) {
			return graphdb.Bound(v), nil
		}
		if hi < 0 {
			fmt.Fprintf(rs.out, "Please type in a number of at least %s, or press enter.\n", strconv.FormatFloat(lo, 'f', -1, 64))
		} else {
			fmt.Fprintf(rs.out, "Please type in a number from %s to %s, or press enter.\n",
				strconv.FormatFloat(lo, 'f', -1, 64), strconv.FormatFloat(hi, 'f', -1, 64))
		}
	}
}

// askPlatforms asks until only known platforms are listed. An empty answer
// means any platform.
func (rs *replState) askPlatforms() ([]string, error) {
	for {
		answer, err := rs.prompt("Which platforms are you playing on? [windows, mac, linux] Press enter for any platform.")
		if err != nil {
			return nil, err
		}
		var platforms []string
		valid := true
		for _, p := range strings.Split(answer, ",") {
			p = strings.ToLower(strings.TrimSpace(p))
			if p == "" {
				continue
			}
			if !isKnownPlatform(p) {
				valid = false
				break
			}
			platforms = append(platforms, p)
		}
		if valid {
			return platforms, nil
		}
		fmt.Fprintln(rs.out, "Please type in windows, mac, or linux.")
	}
}

func isKnownPlatform(p string) bool {
	for _, known := range knownPlatforms {
		if p == known {
			return true
		}
	}
	return false
}

// askContinue asks whether to run another round
func (rs *replState) askContinue() (bool, error) {
	for {
		answer, err := rs.prompt("Do you want to continue? [yes or no]")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "yes":
			fmt.Fprintln(rs.out, "=================================================")
			return true, nil
		case "no":
			return false, nil
		default:
			fmt.Fprintln(rs.out, "Sorry, I don't understand your input")
		}
	}
}

// runGuided repeats the guided questions until the user stops
func (rs *replState) runGuided() {
	rs.logger.WithField("component", "Main").Info("Starting guided recommendations")
	fmt.Fprintln(rs.out, "Welcome to Steam games recommendation app!")

	for {
		if err := rs.ask(); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			rs.printError(err)
		}
		more, err := rs.askContinue()
		if err != nil || !more {
			break
		}
	}
	fmt.Fprintln(rs.out, "Goodbye!")
}
