package graphdb

import (
	"sort"
)

// Vertex is a node of the game graph. It is implemented only by *AttributeVertex
// and *GameVertex; use a type switch or Key().Kind to tell them apart.
type Vertex interface {
	Key() Key
	Degree() int
	Neighbours() []Key
	HasNeighbour(key Key) bool

	link(key Key) bool
}

// neighbourSet holds the keys adjacent to a vertex
type neighbourSet map[Key]struct{}

type baseVertex struct {
	key        Key
	neighbours neighbourSet
}

func newBaseVertex(key Key) baseVertex {
	return baseVertex{key: key, neighbours: make(neighbourSet)}
}

// Key returns the vertex key
func (v *baseVertex) Key() Key {
	return v.key
}

// Item returns the item part of the vertex key
func (v *baseVertex) Item() string {
	return v.key.Item
}

// Degree returns the number of neighbours
func (v *baseVertex) Degree() int {
	return len(v.neighbours)
}

// Neighbours returns the neighbour keys ordered by kind, then item
func (v *baseVertex) Neighbours() []Key {
	keys := make([]Key, 0, len(v.neighbours))
	for k := range v.neighbours {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	return keys
}

// HasNeighbour reports whether key is adjacent to this vertex
func (v *baseVertex) HasNeighbour(key Key) bool {
	_, ok := v.neighbours[key]
	return ok
}

// link adds key as a neighbour and reports whether it was new
func (v *baseVertex) link(key Key) bool {
	if key == v.key {
		return false
	}
	if _, ok := v.neighbours[key]; ok {
		return false
	}
	v.neighbours[key] = struct{}{}
	return true
}

// AttributeVertex is a developer, genre, category or tag
type AttributeVertex struct {
	baseVertex
}

// GameVertex is a game together with its price, rating and platforms
type GameVertex struct {
	baseVertex
	Price       float64
	RatingScore float64
	Platforms   []string
}

// Title returns the game title
func (g *GameVertex) Title() string {
	return g.key.Item
}

// SimilarityScore returns the Jaccard index of the two games' neighbour sets,
// counting only neighbours whose kind is in kinds. It is 0 when either game
// has no neighbours at all or the restricted union is empty.
func (g *GameVertex) SimilarityScore(other *GameVertex, kinds KindSet) float64 {
	if g.Degree() == 0 || other.Degree() == 0 {
		return 0
	}

	union := 0
	shared := 0
	for k := range g.neighbours {
		if !kinds.Has(k.Kind) {
			continue
		}
		union++
		if _, ok := other.neighbours[k]; ok {
			shared++
		}
	}
	for k := range other.neighbours {
		if !kinds.Has(k.Kind) {
			continue
		}
		if _, ok := g.neighbours[k]; !ok {
			union++
		}
	}

	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

// GameDetails is a read-only snapshot of a game and its attributes
type GameDetails struct {
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	RatingScore float64  `json:"rating_score"`
	Platforms   []string `json:"platforms"`
	Attributes  []Key    `json:"attributes"`
}

// Details returns a snapshot of the game that is safe to hand out
func (g *GameVertex) Details() GameDetails {
	platforms := make([]string, len(g.Platforms))
	copy(platforms, g.Platforms)
	return GameDetails{
		Title:       g.Title(),
		Price:       g.Price,
		RatingScore: g.RatingScore,
		Platforms:   platforms,
		Attributes:  g.Neighbours(),
	}
}
