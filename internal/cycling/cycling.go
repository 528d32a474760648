package cycling

import (
	"fmt"
	"iter"
	"time"

	"github.com/rickb777/period"
)

// CyclePoint is one concrete repetition of a cycle: either a dateless
// one-off point or a date-bounded chunk of a periodic cycle.
type CyclePoint interface {
	fmt.Stringer
	cyclePoint()
}

// OneOffPoint is the single point of a non-repeating cycle.
type OneOffPoint struct{}

func (OneOffPoint) cyclePoint() {}

func (OneOffPoint) String() string { return "[]" }

// DateCyclePoint is one chunk of a periodic cycle. StartDate and StopDate
// are the overall cycle bounds; ChunkStartDate and ChunkStopDate bound the
// current repetition, with ChunkStartDate < ChunkStopDate <= StopDate.
type DateCyclePoint struct {
	StartDate      time.Time
	StopDate       time.Time
	ChunkStartDate time.Time
	ChunkStopDate  time.Time
	Period         period.Period
}

func (DateCyclePoint) cyclePoint() {}

func (p DateCyclePoint) String() string {
	return fmt.Sprintf("[%s -- %s]", FormatDate(p.ChunkStartDate), FormatDate(p.ChunkStopDate))
}

// Policy produces the sequence of cycle points for one cycle declaration.
// The sequence is finite and restartable: every call to Points iterates
// again from the beginning.
type Policy interface {
	Points() iter.Seq[CyclePoint]
}

// OneOff is the policy of a cycle with no temporal axis.
type OneOff struct{}

func (OneOff) Points() iter.Seq[CyclePoint] {
	return func(yield func(CyclePoint) bool) {
		yield(OneOffPoint{})
	}
}

// DateCycling repeats a cycle from StartDate to StopDate in chunks of
// Period. Construct it with NewDateCycling so the bounds are validated.
type DateCycling struct {
	StartDate time.Time
	StopDate  time.Time
	Period    period.Period
}

// NewDateCycling validates the cycling bounds: the period must be strictly
// positive and must fit at least once between start and stop.
func NewDateCycling(start, stop time.Time, p period.Period) (*DateCycling, error) {
	if start.After(stop) {
		return nil, fmt.Errorf("start date %s lies after stop date %s", FormatDate(start), FormatDate(stop))
	}
	if p.IsZero() || p.IsNegative() {
		return nil, fmt.Errorf("period %s is negative or zero", p)
	}
	if first, _ := p.AddTo(start); first.After(stop) {
		return nil, fmt.Errorf("period %s larger than the span between start date %s and stop date %s",
			p, FormatDate(start), FormatDate(stop))
	}
	return &DateCycling{StartDate: start, StopDate: stop, Period: p}, nil
}

// Points yields successive chunks starting at StartDate, each beginning
// where the previous one ended, the last one clamped to StopDate.
func (c *DateCycling) Points() iter.Seq[CyclePoint] {
	return func(yield func(CyclePoint) bool) {
		begin := c.StartDate
		for begin.Before(c.StopDate) {
			end, _ := c.Period.AddTo(begin)
			if end.After(c.StopDate) {
				end = c.StopDate
			}
			if !yield(DateCyclePoint{
				StartDate:      c.StartDate,
				StopDate:       c.StopDate,
				ChunkStartDate: begin,
				ChunkStopDate:  end,
				Period:         c.Period,
			}) {
				return
			}
			begin = end
		}
	}
}
