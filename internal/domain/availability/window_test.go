//go:build unit

package availability_test

import (
	"testing"
	"time"

	"eropoppin-booking/internal/domain/availability"
	"eropoppin-booking/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mondayWindow(startHour, endHour int) availability.WeeklyWindow {
	return availability.WeeklyWindow{
		Weekday:     time.Monday,
		StartMinute: startHour * 60,
		EndMinute:   endHour * 60,
	}
}

func TestNewSchedule(t *testing.T) {
	providerID := uuid.New()

	t.Run("valid", func(t *testing.T) {
		sched, err := availability.NewSchedule(providerID, time.UTC, []availability.WeeklyWindow{
			mondayWindow(9, 18),
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, providerID, sched.ProviderID())
	})

	t.Run("window validation", func(t *testing.T) {
		cases := []struct {
			name   string
			window availability.WeeklyWindow
			errIs  error
		}{
			{name: "full day", window: availability.WeeklyWindow{Weekday: time.Monday, StartMinute: 0, EndMinute: 1440}},
			{name: "end past midnight", window: availability.WeeklyWindow{Weekday: time.Monday, StartMinute: 0, EndMinute: 1441}, errIs: availability.ErrInvalidWindow},
			{name: "start after end", window: availability.WeeklyWindow{Weekday: time.Monday, StartMinute: 600, EndMinute: 540}, errIs: availability.ErrInvalidWindow},
			{name: "empty window", window: availability.WeeklyWindow{Weekday: time.Monday, StartMinute: 540, EndMinute: 540}, errIs: availability.ErrInvalidWindow},
			{name: "invalid weekday", window: availability.WeeklyWindow{Weekday: time.Weekday(7), StartMinute: 0, EndMinute: 60}, errIs: availability.ErrInvalidWeekday},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				_, err := availability.NewSchedule(providerID, time.UTC, []availability.WeeklyWindow{c.window}, nil)
				if c.errIs != nil {
					assert.ErrorIs(t, err, c.errIs)
				} else {
					assert.NoError(t, err)
				}
			})
		}
	})

	t.Run("invalid exception kind", func(t *testing.T) {
		_, err := availability.NewSchedule(providerID, time.UTC, nil, []availability.Exception{
			{Kind: "holiday", Range: hours(t, 9, 12)},
		})
		assert.ErrorIs(t, err, availability.ErrInvalidWindow)
	})

	t.Run("nil location defaults to UTC", func(t *testing.T) {
		sched, err := availability.NewSchedule(providerID, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, time.UTC, sched.Location())
	})
}

func TestWindowsBetween(t *testing.T) {
	providerID := uuid.New()

	t.Run("weekly pattern expands per matching day", func(t *testing.T) {
		sched, err := availability.NewSchedule(providerID, time.UTC, []availability.WeeklyWindow{
			mondayWindow(9, 18),
		}, nil)
		require.NoError(t, err)

		// Two weeks: two Mondays.
		windows := sched.WindowsBetween(day, day.AddDate(0, 0, 14))
		require.Len(t, windows, 2)
		assert.Equal(t, at(9), windows[0].Start())
		assert.Equal(t, at(18), windows[0].End())
		assert.Equal(t, at(9).AddDate(0, 0, 7), windows[1].Start())
	})

	t.Run("windows clip to the query range", func(t *testing.T) {
		sched, err := availability.NewSchedule(providerID, time.UTC, []availability.WeeklyWindow{
			mondayWindow(9, 18),
		}, nil)
		require.NoError(t, err)

		windows := sched.WindowsBetween(at(10), at(12))
		require.Len(t, windows, 1)
		assert.Equal(t, at(10), windows[0].Start())
		assert.Equal(t, at(12), windows[0].End())
	})

	t.Run("adjacent windows merge", func(t *testing.T) {
		sched, err := availability.NewSchedule(providerID, time.UTC, []availability.WeeklyWindow{
			mondayWindow(9, 12),
			mondayWindow(12, 18),
		}, nil)
		require.NoError(t, err)

		windows := sched.WindowsBetween(day, day.AddDate(0, 0, 1))
		require.Len(t, windows, 1)
		assert.Equal(t, at(9), windows[0].Start())
		assert.Equal(t, at(18), windows[0].End())
	})

	t.Run("open exception adds a one-off window", func(t *testing.T) {
		sunday := hours(t, -15, -13) // previous day, no weekly window
		sched, err := availability.NewSchedule(providerID, time.UTC, []availability.WeeklyWindow{
			mondayWindow(9, 18),
		}, []availability.Exception{
			{Kind: availability.ExceptionOpen, Range: sunday},
		})
		require.NoError(t, err)

		windows := sched.WindowsBetween(day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
		require.Len(t, windows, 2)
		assert.Equal(t, sunday.Start(), windows[0].Start())
	})

	t.Run("blackout punches a hole", func(t *testing.T) {
		sched, err := availability.NewSchedule(providerID, time.UTC, []availability.WeeklyWindow{
			mondayWindow(9, 18),
		}, []availability.Exception{
			{Kind: availability.ExceptionBlackout, Range: hours(t, 12, 14)},
		})
		require.NoError(t, err)

		windows := sched.WindowsBetween(day, day.AddDate(0, 0, 1))
		require.Len(t, windows, 2)
		assert.Equal(t, at(9), windows[0].Start())
		assert.Equal(t, at(12), windows[0].End())
		assert.Equal(t, at(14), windows[1].Start())
		assert.Equal(t, at(18), windows[1].End())
	})

	t.Run("blackout overrides an open exception", func(t *testing.T) {
		sched, err := availability.NewSchedule(providerID, time.UTC, nil, []availability.Exception{
			{Kind: availability.ExceptionOpen, Range: hours(t, 9, 18)},
			{Kind: availability.ExceptionBlackout, Range: hours(t, 9, 18)},
		})
		require.NoError(t, err)

		assert.Empty(t, sched.WindowsBetween(day, day.AddDate(0, 0, 1)))
	})

	t.Run("timezone shifts window boundaries", func(t *testing.T) {
		berlin, err := time.LoadLocation("Europe/Berlin")
		require.NoError(t, err)

		sched, err := availability.NewSchedule(providerID, berlin, []availability.WeeklyWindow{
			mondayWindow(9, 18),
		}, nil)
		require.NoError(t, err)

		windows := sched.WindowsBetween(day, day.AddDate(0, 0, 1))
		require.Len(t, windows, 1)
		// 09:00 CEST (June) is 07:00 UTC.
		assert.Equal(t, at(7), windows[0].Start().UTC())
	})
}

func TestCovers(t *testing.T) {
	providerID := uuid.New()
	sched, err := availability.NewSchedule(providerID, time.UTC, []availability.WeeklyWindow{
		mondayWindow(9, 18),
	}, []availability.Exception{
		{Kind: availability.ExceptionBlackout, Range: hours(t, 12, 14)},
	})
	require.NoError(t, err)

	cases := []struct {
		name    string
		r       booking.TimeRange
		covered bool
	}{
		{name: "inside morning window", r: hours(t, 9, 12), covered: true},
		{name: "inside afternoon window", r: hours(t, 14, 18), covered: true},
		{name: "spans the blackout", r: hours(t, 11, 15), covered: false},
		{name: "before opening", r: hours(t, 7, 10), covered: false},
		{name: "past closing", r: hours(t, 17, 19), covered: false},
		{name: "wrong day", r: booking.MustTimeRange(at(9).AddDate(0, 0, 1), at(12).AddDate(0, 0, 1)), covered: false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.covered, sched.Covers(c.r))
		})
	}
}
