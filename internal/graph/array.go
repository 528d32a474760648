package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vk/cyclegraph/internal/config"
	"github.com/vk/cyclegraph/internal/cycling"
)

// keySep joins formatted coordinate values into an internal map key. It is
// a control character so it cannot collide with value text.
const keySep = "\x1f"

// Array is a dimension-checked, coordinate-indexed container for one named
// family of node instances. The dimension set is bound by the first
// insertion; every later access must use exactly that set. Iteration and
// Cartesian-product resolution follow the fixed dimension order and
// insertion order, never map order.
type Array[T GraphItem] struct {
	name  string
	bound bool
	dims  []string

	axes     map[string][]any
	axisSeen map[string]map[string]struct{}

	items map[string]T
	keys  []string
}

// NewArray creates an empty array for the given family name. Its dimension
// set is bound on first insertion.
func NewArray[T GraphItem](name string) *Array[T] {
	return &Array[T]{
		name:  name,
		items: make(map[string]T),
	}
}

// Name returns the family name shared by all items of this array.
func (a *Array[T]) Name() string { return a.name }

// Dims returns the fixed dimension order, nil before the first insertion.
func (a *Array[T]) Dims() []string { return a.dims }

// Set inserts an item at the given coordinates. The first call binds the
// array's dimension set and order; later calls must present the same set
// (in any order). Inserting twice at the same coordinates is an error.
func (a *Array[T]) Set(coords Coordinates, item T) error {
	if !a.bound {
		a.bound = true
		a.dims = slices.Clone(coords.Dims())
		a.axes = make(map[string][]any, len(a.dims))
		a.axisSeen = make(map[string]map[string]struct{}, len(a.dims))
		for _, dim := range a.dims {
			a.axisSeen[dim] = make(map[string]struct{})
		}
	}
	key, err := a.key(coords)
	if err != nil {
		return err
	}
	if _, taken := a.items[key]; taken {
		return fmt.Errorf("array %q: coordinates %s already used, cannot set item twice", a.name, coords)
	}
	for _, dim := range a.dims {
		v, _ := coords.Value(dim)
		formatted := FormatValue(v)
		if _, seen := a.axisSeen[dim][formatted]; !seen {
			a.axisSeen[dim][formatted] = struct{}{}
			a.axes[dim] = append(a.axes[dim], v)
		}
	}
	a.items[key] = item
	a.keys = append(a.keys, key)
	return nil
}

// Get returns the item stored at the given coordinates.
func (a *Array[T]) Get(coords Coordinates) (T, error) {
	var zero T
	key, err := a.key(coords)
	if err != nil {
		return zero, err
	}
	item, ok := a.items[key]
	if !ok {
		return zero, fmt.Errorf("array %q: no item at coordinates %s", a.name, coords)
	}
	return item, nil
}

// Items returns all stored items in insertion order.
func (a *Array[T]) Items() []T {
	items := make([]T, len(a.keys))
	for i, key := range a.keys {
		items[i] = a.items[key]
	}
	return items
}

// key validates the coordinate key set against the fixed dimensions and
// builds the ordered internal key.
func (a *Array[T]) key(coords Coordinates) (string, error) {
	if len(coords) != len(a.dims) {
		return "", a.dimMismatch(coords)
	}
	parts := make([]string, len(a.dims))
	for i, dim := range a.dims {
		v, ok := coords.Value(dim)
		if !ok {
			return "", a.dimMismatch(coords)
		}
		parts[i] = FormatValue(v)
	}
	return strings.Join(parts, keySep), nil
}

func (a *Array[T]) dimMismatch(coords Coordinates) error {
	return fmt.Errorf("array %q: coordinate names %v don't match array dimensions %v",
		a.name, coords.Dims(), a.dims)
}

// ResolveSpec yields the items addressed by a cross-reference spec from the
// given reference coordinates: the date axis per the spec's target cycle,
// every other axis per its parameter mode, combined as a Cartesian product
// in the array's fixed dimension order.
func (a *Array[T]) ResolveSpec(spec *config.TargetNodes, ref Coordinates) ([]T, error) {
	target := spec.TargetCycle
	if target == nil {
		target = cycling.NoTargetCycle{}
	}

	hasDate := slices.Contains(a.dims, DimDate)
	switch target.(type) {
	case cycling.DateList, cycling.LagList:
		if !hasDate {
			return nil, fmt.Errorf("array %q has no date dimension, cannot be referenced by dates", a.name)
		}
	}
	if hasDate {
		if _, refDated := ref.Date(); !refDated {
			if _, isDateList := target.(cycling.DateList); !isDateList {
				return nil, fmt.Errorf("array %q has a date dimension, must be referenced by dates", a.name)
			}
		}
	}

	axes := make([][]any, len(a.dims))
	for i, dim := range a.dims {
		values, err := a.resolveDim(spec, target, dim, ref)
		if err != nil {
			return nil, err
		}
		axes[i] = values
	}

	var items []T
	for _, parts := range product(axes) {
		key := strings.Join(parts, keySep)
		item, ok := a.items[key]
		if !ok {
			coords := make(Coordinates, len(a.dims))
			for i, dim := range a.dims {
				coords[i] = Coordinate{Dim: dim, Value: parts[i]}
			}
			return nil, fmt.Errorf("array %q: no item at coordinates %s addressed by reference from %s",
				a.name, coords, ref)
		}
		items = append(items, item)
	}
	return items, nil
}

// resolveDim resolves one dimension of a cross-reference: the date axis via
// the target-cycle spec, parameter axes via their declared mode ("single"
// takes the reference's own value, "all" the values observed so far).
func (a *Array[T]) resolveDim(spec *config.TargetNodes, target cycling.TargetCycle, dim string, ref Coordinates) ([]any, error) {
	if dim == DimDate {
		switch tc := target.(type) {
		case cycling.NoTargetCycle:
			refDate, ok := ref.Date()
			if !ok {
				return nil, fmt.Errorf("array %q: reference %s carries no date", a.name, ref)
			}
			return []any{refDate}, nil
		case cycling.DateList:
			values := make([]any, len(tc.Dates))
			for i, d := range tc.Dates {
				values[i] = d
			}
			return values, nil
		case cycling.LagList:
			refDate, ok := ref.Date()
			if !ok {
				return nil, fmt.Errorf("array %q: reference %s carries no date", a.name, ref)
			}
			values := make([]any, len(tc.Lags))
			for i, lag := range tc.Lags {
				lagged, _ := lag.AddTo(refDate)
				values[i] = lagged
			}
			return values, nil
		default:
			return nil, fmt.Errorf("array %q: unknown target cycle spec %T", a.name, target)
		}
	}
	if spec.Parameters[dim] == config.ParamSingle {
		v, ok := ref.Value(dim)
		if !ok {
			return nil, fmt.Errorf("array %q: reference %s carries no value for dimension %q", a.name, ref, dim)
		}
		return []any{v}, nil
	}
	return a.axes[dim], nil
}

// product enumerates the Cartesian product of the given axes with the last
// axis varying fastest, formatted into key parts. An empty axis list yields
// a single empty combination.
func product(axes [][]any) [][]string {
	combos := [][]string{{}}
	for _, axis := range axes {
		next := make([][]string, 0, len(combos)*len(axis))
		for _, combo := range combos {
			for _, v := range axis {
				extended := make([]string, len(combo), len(combo)+1)
				copy(extended, combo)
				next = append(next, append(extended, FormatValue(v)))
			}
		}
		combos = next
	}
	return combos
}
