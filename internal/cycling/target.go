package cycling

import (
	"time"

	"github.com/rickb777/period"
)

// TargetCycle selects which cycle point(s) a cross-reference addresses.
// Exactly one variant applies per reference.
type TargetCycle interface {
	targetCycle()
}

// NoTargetCycle resolves to the reference's own date.
type NoTargetCycle struct{}

func (NoTargetCycle) targetCycle() {}

// DateList resolves to an explicit set of absolute dates, independent of
// the reference.
type DateList struct {
	Dates []time.Time
}

func (DateList) targetCycle() {}

// LagList resolves to the reference date offset by each lag, in list order.
type LagList struct {
	Lags []period.Period
}

func (LagList) targetCycle() {}
