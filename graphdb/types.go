package graphdb

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
)

// Kind identifies what a vertex represents
type Kind int

const (
	KindGame Kind = iota
	KindDeveloper
	KindGenre
	KindCategory
	KindTag
)

var kindNames = [...]string{
	KindGame:      "game",
	KindDeveloper: "developer",
	KindGenre:     "genre",
	KindCategory:  "category",
	KindTag:       "tag",
}

// String returns the lower-case name of the kind
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind converts a kind name such as "genre" to a Kind
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidArgument, "unknown kind %q", name)
}

// KindSet is a set of vertex kinds
type KindSet uint8

// AttributeKinds holds every non-game kind
var AttributeKinds = NewKindSet(KindCategory, KindGenre, KindTag, KindDeveloper)

// NewKindSet builds a set from the given kinds
func NewKindSet(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s |= 1 << uint(k)
	}
	return s
}

// ParseKindSet builds a set from kind names. Names that do not match a kind are
// returned separately so callers can decide whether to reject or ignore them.
func ParseKindSet(names []string) (KindSet, []string) {
	var (
		s       KindSet
		unknown []string
	)
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		k, err := ParseKind(name)
		if err != nil {
			unknown = append(unknown, name)
			continue
		}
		s |= NewKindSet(k)
	}
	return s, unknown
}

// Has reports whether k is in the set
func (s KindSet) Has(k Kind) bool {
	return k >= 0 && s&(1<<uint(k)) != 0
}

// IsEmpty reports whether the set holds no kinds
func (s KindSet) IsEmpty() bool {
	return s == 0
}

// Kinds lists the members in declaration order
func (s KindSet) Kinds() []Kind {
	var kinds []Kind
	for k := range kindNames {
		if s.Has(Kind(k)) {
			kinds = append(kinds, Kind(k))
		}
	}
	return kinds
}

// Names lists the member names in declaration order
func (s KindSet) Names() []string {
	kinds := s.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}

func (s KindSet) String() string {
	return "{" + strings.Join(s.Names(), ",") + "}"
}

// MarshalJSON encodes the set as a list of kind names
func (s KindSet) MarshalJSON() ([]byte, error) {
	names := s.Names()
	if names == nil {
		names = []string{}
	}
	return json.Marshal(names)
}

// UnmarshalJSON decodes a list of kind names; unknown names are rejected
func (s *KindSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return errors.Wrap(err, "kinds must be a list of names")
	}
	set, unknown := ParseKindSet(names)
	if len(unknown) > 0 {
		return errors.Wrapf(ErrInvalidArgument, "unknown kinds %v", unknown)
	}
	*s = set
	return nil
}

// Key uniquely identifies a vertex. Items are matched exactly and case-sensitively.
type Key struct {
	Item string
	Kind Kind
}

// GameKey is shorthand for the key of a game title
func GameKey(title string) Key {
	return Key{Item: title, Kind: KindGame}
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s", k.Kind, k.Item)
}

// MarshalJSON encodes the key with its kind name
func (k Key) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Item string `json:"item"`
		Kind string `json:"kind"`
	}{k.Item, k.Kind.String()})
}

// less orders keys by kind, then item
func (k Key) less(o Key) bool {
	if k.Kind != o.Kind {
		return k.Kind < o.Kind
	}
	return k.Item < o.Item
}

// GameInfo holds the attributes attached to a game vertex
type GameInfo struct {
	Price       float64
	RatingScore float64
	Platforms   []string
}

// Filter restricts the candidate games of a recommendation. A nil bound or an
// empty platform list applies no restriction.
type Filter struct {
	MaxPrice  *float64 `json:"max_price,omitempty" validate:"omitempty,gte=0"`
	Platforms []string `json:"platforms,omitempty"`
	MinRating *float64 `json:"min_rating,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// Bound returns a pointer to v for use as a Filter bound
func Bound(v float64) *float64 {
	return &v
}

// Matches reports whether the game passes every bound of the filter
func (f Filter) Matches(g *GameVertex) bool {
	if f.MaxPrice != nil && g.Price > *f.MaxPrice {
		return false
	}
	if f.MinRating != nil && g.RatingScore < *f.MinRating {
		return false
	}
	if len(f.Platforms) == 0 {
		return true
	}
	for _, p := range g.Platforms {
		for _, want := range f.Platforms {
			if p == want {
				return true
			}
		}
	}
	return false
}

// ResolveKinds parses kind names strictly. Unknown names and "game" are
// rejected. No names at all gives fallback.
func ResolveKinds(names []string, fallback KindSet) (KindSet, error) {
	set, unknown := ParseKindSet(names)
	if len(unknown) > 0 {
		return 0, errors.WithHint(
			errors.Wrapf(ErrInvalidArgument, "unknown kinds %v", unknown),
			"valid kinds are "+strings.Join(AttributeKinds.Names(), ", "))
	}
	if set.Has(KindGame) {
		return 0, errors.Wrap(ErrInvalidArgument, "game is not an attribute kind")
	}
	if set.IsEmpty() {
		return fallback, nil
	}
	return set, nil
}
