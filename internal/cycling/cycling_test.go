package cycling

import (
	"testing"
	"time"

	"github.com/rickb777/period"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOneOffPoints(t *testing.T) {
	var points []CyclePoint
	for p := range (OneOff{}).Points() {
		points = append(points, p)
	}
	require.Len(t, points, 1)
	assert.Equal(t, OneOffPoint{}, points[0])
	assert.Equal(t, "[]", points[0].String())
}

func TestNewDateCycling(t *testing.T) {
	t.Run("valid bounds", func(t *testing.T) {
		c, err := NewDateCycling(date("2026-01-01"), date("2027-01-01"), period.MustParse("P6M"))
		require.NoError(t, err)
		assert.Equal(t, date("2026-01-01"), c.StartDate)
	})

	t.Run("start after stop", func(t *testing.T) {
		_, err := NewDateCycling(date("2027-01-01"), date("2026-01-01"), period.MustParse("P1M"))
		assert.ErrorContains(t, err, "lies after stop date")
	})

	t.Run("zero period", func(t *testing.T) {
		_, err := NewDateCycling(date("2026-01-01"), date("2027-01-01"), period.Period{})
		assert.ErrorContains(t, err, "negative or zero")
	})

	t.Run("negative period", func(t *testing.T) {
		_, err := NewDateCycling(date("2026-01-01"), date("2027-01-01"), period.MustParse("-P1M"))
		assert.ErrorContains(t, err, "negative or zero")
	})

	t.Run("period exceeding span", func(t *testing.T) {
		_, err := NewDateCycling(date("2026-01-01"), date("2026-03-01"), period.MustParse("P1Y"))
		assert.ErrorContains(t, err, "larger than the span")
	})
}

func TestDateCyclingPoints(t *testing.T) {
	collect := func(c *DateCycling) []DateCyclePoint {
		var points []DateCyclePoint
		for p := range c.Points() {
			points = append(points, p.(DateCyclePoint))
		}
		return points
	}

	t.Run("even split", func(t *testing.T) {
		c, err := NewDateCycling(date("2026-01-01"), date("2027-01-01"), period.MustParse("P6M"))
		require.NoError(t, err)

		points := collect(c)
		require.Len(t, points, 2)
		assert.Equal(t, date("2026-01-01"), points[0].ChunkStartDate)
		assert.Equal(t, date("2026-07-01"), points[0].ChunkStopDate)
		assert.Equal(t, date("2026-07-01"), points[1].ChunkStartDate)
		assert.Equal(t, date("2027-01-01"), points[1].ChunkStopDate)
		for _, p := range points {
			assert.Equal(t, date("2026-01-01"), p.StartDate)
			assert.Equal(t, date("2027-01-01"), p.StopDate)
		}
	})

	t.Run("final chunk clamped to stop", func(t *testing.T) {
		c, err := NewDateCycling(date("2026-01-01"), date("2026-05-15"), period.MustParse("P2M"))
		require.NoError(t, err)

		points := collect(c)
		require.Len(t, points, 3)
		assert.Equal(t, date("2026-05-01"), points[2].ChunkStartDate)
		assert.Equal(t, date("2026-05-15"), points[2].ChunkStopDate)
	})

	t.Run("restartable", func(t *testing.T) {
		c, err := NewDateCycling(date("2026-01-01"), date("2027-01-01"), period.MustParse("P3M"))
		require.NoError(t, err)

		first := collect(c)
		second := collect(c)
		assert.Equal(t, first, second)
		assert.Len(t, first, 4)
	})
}

func TestParseDate(t *testing.T) {
	t.Run("date only", func(t *testing.T) {
		d, err := ParseDate("2026-01-01")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("date and time", func(t *testing.T) {
		d, err := ParseDate("2026-01-01T06:30:00")
		require.NoError(t, err)
		assert.Equal(t, 6, d.Hour())
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseDate("not a date")
		assert.ErrorContains(t, err, "invalid date")
	})
}
