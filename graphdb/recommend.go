package graphdb

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// Recommendation is a game similar to an input game
type Recommendation struct {
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// RankedGame aggregates the recommendations of a game across several inputs
type RankedGame struct {
	Title     string  `json:"title"`
	Frequency int     `json:"frequency"`
	ScoreSum  float64 `json:"score_sum"`
}

// RecommendGames scores every game that passes the filter against title and
// returns those with a non-zero score, highest score first. Equal scores are
// ordered by title. The input game itself is never returned.
func (g *Graph) RecommendGames(title string, kinds KindSet, f Filter) ([]Recommendation, error) {
	game, err := g.Game(title)
	if err != nil {
		return nil, err
	}

	var recs []Recommendation
	for _, candidate := range g.FilteredGames(f) {
		if candidate == game {
			continue
		}
		score := game.SimilarityScore(candidate, kinds)
		if score == 0 {
			continue
		}
		recs = append(recs, Recommendation{Title: candidate.Title(), Score: score})
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Title < recs[j].Title
	})
	return recs, nil
}

// RankGames runs RecommendGames for every input title and merges the results.
// Games recommended by more inputs rank higher; ties go to the larger summed
// score, then to the title. Input titles are never ranked and repeated inputs
// count once.
func (g *Graph) RankGames(titles []string, kinds KindSet, f Filter) ([]RankedGame, error) {
	inputs := make(map[string]struct{}, len(titles))
	var unique []string
	for _, t := range titles {
		if _, seen := inputs[t]; seen {
			continue
		}
		inputs[t] = struct{}{}
		unique = append(unique, t)
	}

	ranked := make(map[string]*RankedGame)
	var order []string
	for _, title := range unique {
		recs, err := g.RecommendGames(title, kinds, f)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			if _, isInput := inputs[rec.Title]; isInput {
				continue
			}
			rg, ok := ranked[rec.Title]
			if !ok {
				rg = &RankedGame{Title: rec.Title}
				ranked[rec.Title] = rg
				order = append(order, rec.Title)
			}
			rg.Frequency++
			rg.ScoreSum += rec.Score
		}
	}

	out := make([]RankedGame, 0, len(order))
	for _, title := range order {
		out = append(out, *ranked[title])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		if out[i].ScoreSum != out[j].ScoreSum {
			return out[i].ScoreSum > out[j].ScoreSum
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

// RecommendMultipleGames returns at most limit titles ranked by RankGames
func (g *Graph) RecommendMultipleGames(titles []string, limit int, kinds KindSet, f Filter) ([]string, error) {
	if limit < 1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "limit %d must be at least 1", limit)
	}
	ranked, err := g.RankGames(titles, kinds, f)
	if err != nil {
		return nil, err
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]string, len(ranked))
	for i, rg := range ranked {
		out[i] = rg.Title
	}
	return out, nil
}
