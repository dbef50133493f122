package graphdb

import (
	"github.com/cockroachdb/errors"
)

// Request asks for recommendations based on a set of games the user played
type Request struct {
	Games  []string `json:"games" validate:"required,min=1,dive,required"`
	Kinds  KindSet  `json:"kinds"`
	Limit  int      `json:"limit" validate:"min=1"`
	Filter Filter   `json:"filter"`
}

// Response holds the ranked recommendations for a Request
type Response struct {
	Games []RankedGame `json:"games"`
}

// Titles returns the recommended titles in rank order
func (r Response) Titles() []string {
	titles := make([]string, len(r.Games))
	for i, rg := range r.Games {
		titles[i] = rg.Title
	}
	return titles
}

// RunQuery answers a Request against a graph. It does not modify the graph.
// An empty kind set in the request means every attribute kind.
func RunQuery(g *Graph, req Request) (Response, error) {
	if err := ValidateStruct(req); err != nil {
		return Response{}, err
	}
	kinds := req.Kinds
	if kinds.IsEmpty() {
		kinds = AttributeKinds
	}
	for _, title := range req.Games {
		if !g.HasVertex(title, KindGame) {
			return Response{}, errors.WithHint(notFound(GameKey(title)),
				"game titles are case-sensitive and must match the catalog exactly")
		}
	}

	ranked, err := g.RankGames(req.Games, kinds, req.Filter)
	if err != nil {
		return Response{}, err
	}
	if len(ranked) > req.Limit {
		ranked = ranked[:req.Limit]
	}
	return Response{Games: ranked}, nil
}
