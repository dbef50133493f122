package graphdb

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// DefaultLimit is used when neither the query nor the options give a limit
const DefaultLimit = 10

// Options holds the defaults applied to queries that leave them out
type Options struct {
	DefaultLimit int
	DefaultKinds KindSet
}

func (o Options) limit() int {
	if o.DefaultLimit < 1 {
		return DefaultLimit
	}
	return o.DefaultLimit
}

func (o Options) kinds() KindSet {
	if o.DefaultKinds.IsEmpty() {
		return AttributeKinds
	}
	return o.DefaultKinds
}

// GameDB is the query interface over a loaded game graph. It is safe for
// concurrent use as long as the graph is no longer modified.
type GameDB struct {
	graph    *Graph
	opts     Options
	executor *Executor
	queryNum atomic.Int64
}

// NewGameDB wraps a loaded graph
func NewGameDB(graph *Graph, opts Options) *GameDB {
	logrus.WithFields(logrus.Fields{
		"component": "GameDB",
		"vertices":  graph.Len(),
		"edges":     graph.EdgeCount(),
	}).Info("Initializing GameDB")
	return &GameDB{
		graph:    graph,
		opts:     opts,
		executor: NewExecutor(graph, opts),
	}
}

// Graph returns the underlying graph
func (db *GameDB) Graph() *Graph {
	return db.graph
}

// DefaultLimit returns the limit applied when a query gives none
func (db *GameDB) DefaultLimit() int {
	return db.opts.limit()
}

// DefaultKinds returns the kinds applied when a query gives none
func (db *GameDB) DefaultKinds() KindSet {
	return db.opts.kinds()
}

// ExecuteQuery tokenizes, parses and executes one statement
func (db *GameDB) ExecuteQuery(query string) (*Result, error) {
	log := logrus.WithFields(logrus.Fields{
		"component": "GameDB",
		"query_num": db.queryNum.Add(1),
	})

	tokens, err := NewTokenizer(query).Tokenize()
	if err != nil {
		log.WithError(err).Error("Failed to tokenize query")
		return nil, err
	}
	stmt, err := NewParser(tokens).Parse()
	if err != nil {
		log.WithError(err).Error("Failed to parse query")
		return nil, err
	}
	res, err := db.executor.Execute(stmt)
	if err != nil {
		log.WithError(err).Error("Failed to execute query")
		return nil, err
	}
	log.WithField("statement", res.Statement).Debug("Query executed")
	return res, nil
}

// RunQuery answers a Request, filling in the default limit and kinds when the
// request leaves them out
func (db *GameDB) RunQuery(req Request) (Response, error) {
	if req.Limit == 0 {
		req.Limit = db.opts.limit()
	}
	if req.Kinds.IsEmpty() {
		req.Kinds = db.opts.kinds()
	}
	resp, err := RunQuery(db.graph, req)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"component": "GameDB",
			"games":     req.Games,
		}).WithError(err).Error("Failed to run query")
		return Response{}, err
	}
	return resp, nil
}
