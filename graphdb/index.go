package graphdb

// KindIndex keeps the keys of every kind in insertion order so that listings
// and candidate scans are deterministic
type KindIndex struct {
	byKind map[Kind][]Key
	known  map[Key]struct{}
}

// NewKindIndex initializes an empty KindIndex
func NewKindIndex() *KindIndex {
	return &KindIndex{
		byKind: make(map[Kind][]Key),
		known:  make(map[Key]struct{}),
	}
}

// Insert adds a key to the index and reports whether it was new
func (ix *KindIndex) Insert(key Key) bool {
	if _, exists := ix.known[key]; exists {
		return false
	}
	ix.known[key] = struct{}{}
	ix.byKind[key.Kind] = append(ix.byKind[key.Kind], key)
	return true
}

// Contains reports whether the key has been inserted
func (ix *KindIndex) Contains(key Key) bool {
	_, exists := ix.known[key]
	return exists
}

// Keys returns the keys of one kind in insertion order
func (ix *KindIndex) Keys(kind Kind) []Key {
	keys := ix.byKind[kind]
	out := make([]Key, len(keys))
	copy(out, keys)
	return out
}

// All returns every key, grouped by kind in declaration order
func (ix *KindIndex) All() []Key {
	out := make([]Key, 0, len(ix.known))
	for k := range kindNames {
		out = append(out, ix.byKind[Kind(k)]...)
	}
	return out
}

// Count returns the number of keys of one kind
func (ix *KindIndex) Count(kind Kind) int {
	return len(ix.byKind[kind])
}

// Len returns the total number of keys
func (ix *KindIndex) Len() int {
	return len(ix.known)
}
