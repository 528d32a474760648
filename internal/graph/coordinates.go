package graph

import (
	"fmt"
	"strings"
	"time"

	"github.com/vk/cyclegraph/internal/cycling"
)

// DimDate is the reserved dimension name of the temporal axis.
const DimDate = "date"

// Coordinate is one dimension/value pair of a node instance.
type Coordinate struct {
	Dim   string
	Value any
}

// Coordinates is the ordered tuple of dimension values that makes one
// instance of a named node unique. The order is the one the builder
// produced it in (declared parameters first, then the date axis) and is
// preserved for labels; Arrays impose their own fixed dimension order for
// keying.
type Coordinates []Coordinate

// Value returns the value of the given dimension.
func (c Coordinates) Value(dim string) (any, bool) {
	for _, coord := range c {
		if coord.Dim == dim {
			return coord.Value, true
		}
	}
	return nil, false
}

// Dims returns the dimension names in coordinate order.
func (c Coordinates) Dims() []string {
	dims := make([]string, len(c))
	for i, coord := range c {
		dims[i] = coord.Dim
	}
	return dims
}

// Date returns the value of the reserved date dimension, if present.
func (c Coordinates) Date() (time.Time, bool) {
	v, ok := c.Value(DimDate)
	if !ok {
		return time.Time{}, false
	}
	t, ok := v.(time.Time)
	return t, ok
}

// datePtr adapts the date axis to the optional form activation predicates
// take.
func (c Coordinates) datePtr() *time.Time {
	if t, ok := c.Date(); ok {
		return &t
	}
	return nil
}

func (c Coordinates) String() string {
	if len(c) == 0 {
		return "{}"
	}
	parts := make([]string, len(c))
	for i, coord := range c {
		parts[i] = coord.Dim + "=" + FormatValue(coord.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// FormatValue renders a coordinate value canonically. Dates use the
// cycling layout; everything else uses its natural textual form.
func FormatValue(v any) string {
	if t, ok := v.(time.Time); ok {
		return cycling.FormatDate(t)
	}
	return fmt.Sprintf("%v", v)
}

// Label builds the canonical instance label: the node name followed by the
// coordinate values in coordinate order, joined with underscores.
func Label(name string, coords Coordinates) string {
	parts := make([]string, 0, len(coords)+1)
	parts = append(parts, name)
	for _, coord := range coords {
		parts = append(parts, strings.ReplaceAll(FormatValue(coord.Value), " ", "_"))
	}
	return strings.Join(parts, "_")
}
