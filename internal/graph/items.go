package graph

import (
	"github.com/vk/cyclegraph/internal/config"
)

// GraphItem is the common face of every node instance in the unrolled
// workflow.
type GraphItem interface {
	// Name is the declared (family) name of the node.
	Name() string
	// Coordinates is the tuple of values making this instance unique
	// within its family.
	Coordinates() Coordinates
}

// DataKind distinguishes pre-existing from task-produced data.
type DataKind int

const (
	// DataAvailable marks data that exists before the workflow runs.
	DataAvailable DataKind = iota
	// DataGenerated marks data produced by a task instance.
	DataGenerated
)

func (k DataKind) String() string {
	if k == DataAvailable {
		return "available"
	}
	return "generated"
}

// Data is one concrete data node instance.
type Data struct {
	name   string
	coords Coordinates
	kind   DataKind

	src      string
	format   string
	computer string
}

// NewData builds a data instance from its declaration at the given
// coordinates.
func NewData(cfg *config.DataItem, kind DataKind, coords Coordinates) *Data {
	return &Data{
		name:     cfg.Name,
		coords:   coords,
		kind:     kind,
		src:      cfg.Src,
		format:   cfg.Format,
		computer: cfg.Computer,
	}
}

func (d *Data) Name() string             { return d.name }
func (d *Data) Coordinates() Coordinates { return d.coords }
func (d *Data) Kind() DataKind           { return d.kind }
func (d *Data) Available() bool          { return d.kind == DataAvailable }

// Src is the source-location descriptor handed to the execution backend.
func (d *Data) Src() string { return d.src }

// Format is the optional data format tag.
func (d *Data) Format() string { return d.format }

// Computer is the optional location tag used by the execution backend.
func (d *Data) Computer() string { return d.computer }

// Label is the canonical instance label of this data node.
func (d *Data) Label() string { return Label(d.name, d.coords) }

// Cycle groups the task instances sharing one cycle point.
type Cycle struct {
	name   string
	coords Coordinates
	tasks  []TaskNode
}

// NewCycle builds a cycle instance holding the given tasks.
func NewCycle(name string, coords Coordinates, tasks []TaskNode) *Cycle {
	return &Cycle{name: name, coords: coords, tasks: tasks}
}

func (c *Cycle) Name() string             { return c.name }
func (c *Cycle) Coordinates() Coordinates { return c.coords }

// Tasks returns the cycle's task instances in creation order.
func (c *Cycle) Tasks() []TaskNode { return c.tasks }
