package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena is the backing store for one node kind. Slot 0 is reserved so the
// zero value of every node ID means "absent"; real IDs start at 1 and are
// plain indices into the slice.
type Arena[T any] struct {
	nodes []T
}

func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		nodes: make([]T, 1, capHint+1),
	}
}

// Allocate stores a node and returns its ID.
func (a *Arena[T]) Allocate(node T) uint32 {
	id, err := safecast.Conv[uint32](len(a.nodes))
	if err != nil {
		panic(fmt.Errorf("node arena overflow: %w", err))
	}
	a.nodes = append(a.nodes, node)
	return id
}

// Get returns the node for an ID, nil for the reserved zero slot and for
// IDs that were never allocated.
func (a *Arena[T]) Get(id uint32) *T {
	if id == 0 || int(id) >= len(a.nodes) {
		return nil
	}
	return &a.nodes[id]
}

// Len reports the number of allocated nodes; valid IDs are 1..Len.
func (a *Arena[T]) Len() uint32 {
	return uint32(len(a.nodes) - 1)
}
