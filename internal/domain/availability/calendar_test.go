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

var day = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC) // a Monday

func at(hour int) time.Time {
	return day.Add(time.Duration(hour) * time.Hour)
}

func hours(t *testing.T, startHour, endHour int) booking.TimeRange {
	t.Helper()
	r, err := booking.NewTimeRange(at(startHour), at(endHour))
	require.NoError(t, err)
	return r
}

func entry(t *testing.T, startHour, endHour int) availability.Entry {
	t.Helper()
	return availability.Entry{BookingID: uuid.New(), Range: hours(t, startHour, endHour)}
}

func TestNewCalendar(t *testing.T) {
	t.Run("sorts unsorted input", func(t *testing.T) {
		cal, err := availability.NewCalendar([]availability.Entry{
			entry(t, 10, 12),
			entry(t, 6, 8),
			entry(t, 14, 16),
		})
		require.NoError(t, err)
		assert.Equal(t, 3, cal.Len())
		assert.False(t, cal.IsFree(hours(t, 7, 9)))
	})

	t.Run("overlapping input is rejected", func(t *testing.T) {
		_, err := availability.NewCalendar([]availability.Entry{
			entry(t, 10, 12),
			entry(t, 11, 13),
		})
		assert.ErrorIs(t, err, availability.ErrSlotTaken)
	})

	t.Run("empty calendar is free everywhere", func(t *testing.T) {
		cal, err := availability.NewCalendar(nil)
		require.NoError(t, err)
		assert.True(t, cal.IsFree(hours(t, 0, 24)))
	})
}

// A booking 14:00-16:00 blocks overlapping requests but not the adjacent
// 16:00-18:00 slot.
func TestReserveAdjacency(t *testing.T) {
	cal, err := availability.NewCalendar(nil)
	require.NoError(t, err)

	require.NoError(t, cal.Reserve(uuid.New(), hours(t, 14, 16)))

	err = cal.Reserve(uuid.New(), hours(t, 15, 17))
	assert.ErrorIs(t, err, availability.ErrSlotTaken)

	assert.NoError(t, cal.Reserve(uuid.New(), hours(t, 16, 18)))
	assert.Equal(t, 2, cal.Len())
}

func TestIsFree(t *testing.T) {
	cal, err := availability.NewCalendar([]availability.Entry{
		entry(t, 6, 8),
		entry(t, 10, 12),
		entry(t, 14, 16),
	})
	require.NoError(t, err)

	cases := []struct {
		name      string
		startHour int
		endHour   int
		free      bool
	}{
		{name: "gap between bookings", startHour: 8, endHour: 10, free: true},
		{name: "before all", startHour: 0, endHour: 6, free: true},
		{name: "after all", startHour: 16, endHour: 20, free: true},
		{name: "overlaps first", startHour: 5, endHour: 7, free: false},
		{name: "overlaps middle", startHour: 11, endHour: 13, free: false},
		{name: "spans multiple", startHour: 7, endHour: 15, free: false},
		{name: "exactly a booked range", startHour: 10, endHour: 12, free: false},
		{name: "inside a booked range", startHour: 10, endHour: 11, free: false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.free, cal.IsFree(hours(t, c.startHour, c.endHour)))
		})
	}
}

func TestRelease(t *testing.T) {
	id := uuid.New()
	cal, err := availability.NewCalendar(nil)
	require.NoError(t, err)
	require.NoError(t, cal.Reserve(id, hours(t, 14, 16)))

	require.NoError(t, cal.Release(id))
	assert.True(t, cal.IsFree(hours(t, 14, 16)))

	assert.ErrorIs(t, cal.Release(id), availability.ErrUnknownBooking)
}

func TestBookedRanges(t *testing.T) {
	cal, err := availability.NewCalendar([]availability.Entry{
		entry(t, 6, 8),
		entry(t, 10, 12),
		entry(t, 14, 16),
	})
	require.NoError(t, err)

	t.Run("yields intersecting ranges in order", func(t *testing.T) {
		var got []booking.TimeRange
		for r := range cal.BookedRanges(at(7), at(15)) {
			got = append(got, r)
		}
		require.Len(t, got, 3, "partially intersecting ranges count")
		assert.Equal(t, at(6), got[0].Start())
		assert.Equal(t, at(10), got[1].Start())
		assert.Equal(t, at(14), got[2].Start())
	})

	t.Run("excludes ranges outside the window", func(t *testing.T) {
		var got []booking.TimeRange
		for r := range cal.BookedRanges(at(8), at(10)) {
			got = append(got, r)
		}
		assert.Empty(t, got, "half-open window endpoints do not intersect")
	})

	t.Run("sequence is restartable", func(t *testing.T) {
		seq := cal.BookedRanges(at(0), at(24))
		first := 0
		for range seq {
			first++
		}
		second := 0
		for range seq {
			second++
		}
		assert.Equal(t, first, second)
		assert.Equal(t, 3, first)
	})

	t.Run("early break stops iteration", func(t *testing.T) {
		count := 0
		for range cal.BookedRanges(at(0), at(24)) {
			count++
			break
		}
		assert.Equal(t, 1, count)
	})
}

func TestFreeSlots(t *testing.T) {
	providerID := uuid.New()
	// Open Monday 09:00-18:00.
	sched, err := availability.NewSchedule(providerID, time.UTC, []availability.WeeklyWindow{
		{Weekday: time.Monday, StartMinute: 9 * 60, EndMinute: 18 * 60},
	}, nil)
	require.NoError(t, err)

	cal, err := availability.NewCalendar([]availability.Entry{
		entry(t, 10, 12),
		entry(t, 14, 16),
	})
	require.NoError(t, err)

	slots := cal.FreeSlots(sched, at(0), at(24))
	require.Len(t, slots, 3)
	assert.Equal(t, at(9), slots[0].Start())
	assert.Equal(t, at(10), slots[0].End())
	assert.Equal(t, at(12), slots[1].Start())
	assert.Equal(t, at(14), slots[1].End())
	assert.Equal(t, at(16), slots[2].Start())
	assert.Equal(t, at(18), slots[2].End())
}
