package timewindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utc(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func TestResolveDay(t *testing.T) {
	w, err := Resolve(PeriodDay, "2025-12-25")
	require.NoError(t, err)
	// 05:00 UTC+9 is 20:00 UTC the previous day.
	assert.Equal(t, utc("2025-12-24T20:00:00Z"), w.Start)
	assert.Equal(t, utc("2025-12-25T20:00:00Z"), w.End)
	assert.Equal(t, 24*time.Hour, w.End.Sub(w.Start))
}

func TestResolveWeekStartsMonday(t *testing.T) {
	// 2025-12-25 is a Thursday; the ISO week starts Monday 2025-12-22.
	w, err := Resolve(PeriodWeek, "2025-12-25")
	require.NoError(t, err)
	assert.Equal(t, utc("2025-12-21T20:00:00Z"), w.Start)
	assert.Equal(t, 7*24*time.Hour, w.End.Sub(w.Start))

	// A Monday maps to its own boundary.
	w, err = Resolve(PeriodWeek, "2025-12-22")
	require.NoError(t, err)
	assert.Equal(t, utc("2025-12-21T20:00:00Z"), w.Start)

	// A Sunday belongs to the week that began six days earlier.
	w, err = Resolve(PeriodWeek, "2025-12-28")
	require.NoError(t, err)
	assert.Equal(t, utc("2025-12-21T20:00:00Z"), w.Start)
}

func TestResolveMonthRollsYear(t *testing.T) {
	w, err := Resolve(PeriodMonth, "2025-12-25")
	require.NoError(t, err)
	assert.Equal(t, utc("2025-11-30T20:00:00Z"), w.Start)
	assert.Equal(t, utc("2025-12-31T20:00:00Z"), w.End)
}

func TestResolveInvalidDate(t *testing.T) {
	for _, bad := range []string{"", "2025-13-01", "2025-00-10", "2025-01-32", "25-01-01", "2025/01/01", "not-a-date"} {
		_, err := Resolve(PeriodDay, bad)
		assert.ErrorIs(t, err, ErrInvalidDate, "input %q", bad)
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodDay, p)

	_, err = ParsePeriod("year")
	assert.Error(t, err)
}

func TestWindowContains(t *testing.T) {
	w, err := Resolve(PeriodDay, "2025-12-25")
	require.NoError(t, err)
	assert.True(t, w.Contains(w.Start))
	assert.False(t, w.Contains(w.End))
	assert.True(t, w.Contains(utc("2025-12-25T10:00:00Z")))
}

func TestDays(t *testing.T) {
	w := Days(3)
	assert.Equal(t, 3*24*time.Hour, w.End.Sub(w.Start))
	w = Days(0)
	assert.Equal(t, 24*time.Hour, w.End.Sub(w.Start))
}

func TestTodayRespectsCutover(t *testing.T) {
	// 03:00 UTC+9 on the 26th is still civil day 25.
	assert.Equal(t, "2025-12-25", Today(utc("2025-12-25T18:00:00Z")))
	// 06:00 UTC+9 on the 26th is civil day 26.
	assert.Equal(t, "2025-12-26", Today(utc("2025-12-25T21:00:00Z")))
}
