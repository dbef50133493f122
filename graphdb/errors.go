package graphdb

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrNotFound is returned when a vertex key is not in the graph
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned for requests the graph can never satisfy,
	// such as a self loop or an edge between two games
	ErrInvalidArgument = errors.New("invalid argument")
)

func notFound(key Key) error {
	return errors.Wrapf(ErrNotFound, "%s %q", key.Kind, key.Item)
}
