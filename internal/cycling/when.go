package cycling

import (
	"errors"
	"time"
)

// When gates whether a cross-reference is active at a given reference date.
// A nil date means the reference lives in a one-off (dateless) context.
type When interface {
	IsActive(date *time.Time) (bool, error)
}

// AnyWhen is always active.
type AnyWhen struct{}

func (AnyWhen) IsActive(*time.Time) (bool, error) { return true, nil }

// AtDate is active only when the reference date equals At.
type AtDate struct {
	At time.Time
}

func (w AtDate) IsActive(date *time.Time) (bool, error) {
	if date == nil {
		return false, errors.New("cannot use a when.at specification in a one-off cycle")
	}
	return date.Equal(w.At), nil
}

// BeforeAfterDate is active when the reference date lies strictly before
// Before and/or strictly after After. Either bound may be left nil.
type BeforeAfterDate struct {
	Before *time.Time
	After  *time.Time
}

func (w BeforeAfterDate) IsActive(date *time.Time) (bool, error) {
	if date == nil {
		return false, errors.New("cannot use a when.before or when.after specification in a one-off cycle")
	}
	return (w.Before == nil || date.Before(*w.Before)) && (w.After == nil || date.After(*w.After)), nil
}
