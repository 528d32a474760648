package graph

import (
	"fmt"

	"github.com/vk/cyclegraph/internal/config"
	"github.com/vk/cyclegraph/internal/cycling"
)

// Store is a name-indexed collection of Arrays: the addressable universe of
// all nodes of one kind. Names iterate in first-insertion order.
type Store[T GraphItem] struct {
	arrays map[string]*Array[T]
	names  []string
}

// NewStore creates an empty store.
func NewStore[T GraphItem]() *Store[T] {
	return &Store[T]{arrays: make(map[string]*Array[T])}
}

// Add buckets the item into the array of its name, creating the array on
// first use.
func (s *Store[T]) Add(item T) error {
	name := item.Name()
	array, ok := s.arrays[name]
	if !ok {
		array = NewArray[T](name)
		s.arrays[name] = array
		s.names = append(s.names, name)
	}
	return array.Set(item.Coordinates(), item)
}

// Get returns the item stored under (name, coordinates).
func (s *Store[T]) Get(name string, coords Coordinates) (T, error) {
	var zero T
	array, ok := s.arrays[name]
	if !ok {
		return zero, fmt.Errorf("entry %q not found in store", name)
	}
	return array.Get(coords)
}

// Names returns the stored family names in first-insertion order.
func (s *Store[T]) Names() []string { return s.names }

// Array returns the array stored under the given name.
func (s *Store[T]) Array(name string) (*Array[T], bool) {
	array, ok := s.arrays[name]
	return array, ok
}

// Items returns every stored item, families in first-insertion order and
// instances in insertion order within each family.
func (s *Store[T]) Items() []T {
	var items []T
	for _, name := range s.names {
		items = append(items, s.arrays[name].Items()...)
	}
	return items
}

// ResolveSpec evaluates the spec's activation predicate against the
// reference date and, if active, resolves the spec against the named
// array. An inactive reference yields no items and no error.
func (s *Store[T]) ResolveSpec(spec *config.TargetNodes, ref Coordinates) ([]T, error) {
	when := spec.When
	if when == nil {
		when = cycling.AnyWhen{}
	}
	active, err := when.IsActive(ref.datePtr())
	if err != nil {
		return nil, fmt.Errorf("reference %q: %w", spec.Name, err)
	}
	if !active {
		return nil, nil
	}
	array, ok := s.arrays[spec.Name]
	if !ok {
		return nil, fmt.Errorf("entry %q not found in store", spec.Name)
	}
	return array.ResolveSpec(spec, ref)
}
