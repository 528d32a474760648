package cycling

import (
	"fmt"
	"time"
)

// DateLayout is the canonical textual form of a cycle date. All labels,
// coordinate keys and rendered output use it so that identical input
// produces byte-identical output.
const DateLayout = "2006-01-02T15:04:05"

var parseLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate reads a date in ISO form, with or without a time component.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// FormatDate renders a date in the canonical layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
