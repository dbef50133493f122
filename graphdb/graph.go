package graphdb

import (
	"github.com/cockroachdb/errors"
)

// Graph stores games and their attributes. Edges always join one game to one
// attribute vertex. The graph owns every vertex; vertices refer to their
// neighbours by key only.
//
// A Graph is built once and then only read. Reads need no locking as long as
// nothing is added concurrently.
type Graph struct {
	vertices map[Key]Vertex
	index    *KindIndex
	edges    int
}

// Stats summarizes the size of a graph
type Stats struct {
	Vertices int            `json:"vertices"`
	Edges    int            `json:"edges"`
	ByKind   map[string]int `json:"by_kind"`
}

// NewGraph initializes an empty Graph
func NewGraph() *Graph {
	return &Graph{
		vertices: make(map[Key]Vertex),
		index:    NewKindIndex(),
	}
}

// AddVertex adds an attribute vertex. It does nothing if the key already
// exists. Adding a KindGame vertex this way creates a game with no price,
// rating or platforms.
func (g *Graph) AddVertex(item string, kind Kind) {
	if kind == KindGame {
		g.AddGame(item, GameInfo{})
		return
	}
	key := Key{Item: item, Kind: kind}
	if _, exists := g.vertices[key]; exists {
		return
	}
	g.vertices[key] = &AttributeVertex{baseVertex: newBaseVertex(key)}
	g.index.Insert(key)
}

// AddGame adds a game vertex. It does nothing if the title already exists.
func (g *Graph) AddGame(title string, info GameInfo) {
	key := GameKey(title)
	if _, exists := g.vertices[key]; exists {
		return
	}
	platforms := make([]string, len(info.Platforms))
	copy(platforms, info.Platforms)
	g.vertices[key] = &GameVertex{
		baseVertex:  newBaseVertex(key),
		Price:       info.Price,
		RatingScore: info.RatingScore,
		Platforms:   platforms,
	}
	g.index.Insert(key)
}

// AddEdge links a game and an attribute vertex in both directions. Adding an
// existing edge again does nothing.
func (g *Graph) AddEdge(item1 string, kind1 Kind, item2 string, kind2 Kind) error {
	k1 := Key{Item: item1, Kind: kind1}
	k2 := Key{Item: item2, Kind: kind2}
	if k1 == k2 {
		return errors.Wrapf(ErrInvalidArgument, "self loop on %s", k1)
	}

	v1, ok := g.vertices[k1]
	if !ok {
		return notFound(k1)
	}
	v2, ok := g.vertices[k2]
	if !ok {
		return notFound(k2)
	}
	if (kind1 == KindGame) == (kind2 == KindGame) {
		return errors.Wrapf(ErrInvalidArgument, "edge %s - %s must join a game and an attribute", k1, k2)
	}

	if v1.link(k2) {
		v2.link(k1)
		g.edges++
	}
	return nil
}

// Adjacent reports whether the two vertices share an edge. It is false when
// either vertex is missing.
func (g *Graph) Adjacent(item1 string, kind1 Kind, item2 string, kind2 Kind) bool {
	v1, ok := g.vertices[Key{Item: item1, Kind: kind1}]
	if !ok {
		return false
	}
	k2 := Key{Item: item2, Kind: kind2}
	if _, ok := g.vertices[k2]; !ok {
		return false
	}
	return v1.HasNeighbour(k2)
}

// Neighbours returns the keys adjacent to a vertex
func (g *Graph) Neighbours(item string, kind Kind) ([]Key, error) {
	v, err := g.Vertex(item, kind)
	if err != nil {
		return nil, err
	}
	return v.Neighbours(), nil
}

// Vertex returns the vertex with the given key
func (g *Graph) Vertex(item string, kind Kind) (Vertex, error) {
	key := Key{Item: item, Kind: kind}
	v, ok := g.vertices[key]
	if !ok {
		return nil, notFound(key)
	}
	return v, nil
}

// Game returns the game vertex with the given title
func (g *Graph) Game(title string) (*GameVertex, error) {
	v, err := g.Vertex(title, KindGame)
	if err != nil {
		return nil, err
	}
	return v.(*GameVertex), nil
}

// HasVertex reports whether the key is in the graph
func (g *Graph) HasVertex(item string, kind Kind) bool {
	return g.index.Contains(Key{Item: item, Kind: kind})
}

// AllVertices returns every vertex key, grouped by kind
func (g *Graph) AllVertices() []Key {
	return g.index.All()
}

// VerticesOfKind returns the keys of one kind in insertion order
func (g *Graph) VerticesOfKind(kind Kind) []Key {
	return g.index.Keys(kind)
}

// FilteredGames returns the games that pass the filter, in insertion order
func (g *Graph) FilteredGames(f Filter) []*GameVertex {
	var games []*GameVertex
	for _, key := range g.index.Keys(KindGame) {
		game := g.vertices[key].(*GameVertex)
		if f.Matches(game) {
			games = append(games, game)
		}
	}
	return games
}

// SimilarityScore returns the similarity of two games restricted to kinds
func (g *Graph) SimilarityScore(title1, title2 string, kinds KindSet) (float64, error) {
	g1, err := g.Game(title1)
	if err != nil {
		return 0, err
	}
	g2, err := g.Game(title2)
	if err != nil {
		return 0, err
	}
	return g1.SimilarityScore(g2, kinds), nil
}

// Len returns the number of vertices
func (g *Graph) Len() int {
	return len(g.vertices)
}

// EdgeCount returns the number of undirected edges
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Stats returns vertex counts per kind and the edge count
func (g *Graph) Stats() Stats {
	byKind := make(map[string]int, len(kindNames))
	for k, name := range kindNames {
		byKind[name] = g.index.Count(Kind(k))
	}
	return Stats{
		Vertices: g.Len(),
		Edges:    g.edges,
		ByKind:   byKind,
	}
}
