package graphdb

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of one statement. Only the fields that belong to the
// statement type are set.
type Result struct {
	Type       StatementType `json:"-"`
	Statement  string        `json:"statement"`
	Ranked     []RankedGame  `json:"ranked,omitempty"`
	Similarity *float64      `json:"similarity,omitempty"`
	Neighbours []Key         `json:"neighbours,omitempty"`
	Game       *GameDetails  `json:"game,omitempty"`
	Stats      *Stats        `json:"stats,omitempty"`
}

// Executor executes parsed statements against a graph
type Executor struct {
	graph    *Graph
	defaults Options
}

// NewExecutor initializes a new Executor
func NewExecutor(graph *Graph, defaults Options) *Executor {
	logrus.WithField("component", "Executor").Debug("Initializing Executor")
	return &Executor{
		graph:    graph,
		defaults: defaults,
	}
}

// Execute runs a statement and returns its result
func (e *Executor) Execute(stmt Statement) (*Result, error) {
	log := logrus.WithFields(logrus.Fields{
		"component": "Executor",
		"statement": stmt.Type.String(),
	})

	var (
		res *Result
		err error
	)
	switch stmt.Type {
	case StmtRecommend:
		res, err = e.executeRecommend(stmt)
	case StmtSimilarity:
		res, err = e.executeSimilarity(stmt)
	case StmtNeighbours:
		res, err = e.executeNeighbours(stmt)
	case StmtShow:
		res, err = e.executeShow(stmt)
	case StmtStats:
		stats := e.graph.Stats()
		res = &Result{Stats: &stats}
	default:
		err = errors.Wrapf(ErrInvalidArgument, "unsupported statement type %d", int(stmt.Type))
	}
	if err != nil {
		log.WithError(err).Debug("Statement failed")
		return nil, err
	}
	res.Type = stmt.Type
	res.Statement = stmt.Type.String()
	log.Debug("Statement executed")
	return res, nil
}

// executeRecommend handles RECOMMEND
func (e *Executor) executeRecommend(stmt Statement) (*Result, error) {
	kinds, err := ResolveKinds(stmt.Kinds, e.defaults.kinds())
	if err != nil {
		return nil, err
	}
	limit := stmt.Limit
	if limit == 0 {
		limit = e.defaults.limit()
	}
	resp, err := RunQuery(e.graph, Request{
		Games: stmt.Games,
		Kinds: kinds,
		Limit: limit,
		Filter: Filter{
			MaxPrice:  stmt.MaxPrice,
			Platforms: stmt.Platforms,
			MinRating: stmt.MinRating,
		},
	})
	if err != nil {
		return nil, err
	}
	ranked := resp.Games
	if ranked == nil {
		ranked = []RankedGame{}
	}
	return &Result{Ranked: ranked}, nil
}

// executeSimilarity handles SIMILARITY
func (e *Executor) executeSimilarity(stmt Statement) (*Result, error) {
	if len(stmt.Games) != 2 {
		return nil, errors.Wrapf(ErrInvalidArgument, "similarity needs two games, got %d", len(stmt.Games))
	}
	kinds, err := ResolveKinds(stmt.Kinds, AttributeKinds)
	if err != nil {
		return nil, err
	}
	score, err := e.graph.SimilarityScore(stmt.Games[0], stmt.Games[1], kinds)
	if err != nil {
		return nil, err
	}
	return &Result{Similarity: &score}, nil
}

// executeNeighbours handles NEIGHBOURS
func (e *Executor) executeNeighbours(stmt Statement) (*Result, error) {
	kind, err := ParseKind(stmt.Kind)
	if err != nil {
		return nil, err
	}
	keys, err := e.graph.Neighbours(stmt.Item, kind)
	if err != nil {
		return nil, err
	}
	if keys == nil {
		keys = []Key{}
	}
	return &Result{Neighbours: keys}, nil
}

// executeShow handles SHOW
func (e *Executor) executeShow(stmt Statement) (*Result, error) {
	game, err := e.graph.Game(stmt.Item)
	if err != nil {
		return nil, err
	}
	details := game.Details()
	return &Result{Game: &details}, nil
}
