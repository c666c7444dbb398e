//go:build unit

package booking_test

import (
	"strings"
	"testing"
	"time"

	"eropoppin-booking/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)

func rng(t *testing.T, startHour, endHour int) booking.TimeRange {
	t.Helper()
	r, err := booking.NewTimeRange(
		base.Add(time.Duration(startHour)*time.Hour),
		base.Add(time.Duration(endHour)*time.Hour),
	)
	require.NoError(t, err)
	return r
}

func TestTimeRange(t *testing.T) {
	t.Run("construction", func(t *testing.T) {
		cases := []struct {
			name  string
			start time.Time
			end   time.Time
			errIs error
		}{
			{name: "valid range", start: base, end: base.Add(time.Hour)},
			{name: "start equals end", start: base, end: base, errIs: booking.ErrInvalidRange},
			{name: "start after end", start: base.Add(time.Hour), end: base, errIs: booking.ErrInvalidRange},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				r, err := booking.NewTimeRange(c.start, c.end)
				if c.errIs != nil {
					require.ErrorIs(t, err, c.errIs)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, c.start, r.Start())
				assert.Equal(t, c.end, r.End())
			})
		}
	})

	t.Run("overlap is symmetric and half-open", func(t *testing.T) {
		cases := []struct {
			name     string
			a, b     booking.TimeRange
			overlaps bool
		}{
			{name: "partial overlap", a: rng(t, 0, 2), b: rng(t, 1, 3), overlaps: true},
			{name: "contained", a: rng(t, 0, 4), b: rng(t, 1, 2), overlaps: true},
			{name: "identical", a: rng(t, 0, 2), b: rng(t, 0, 2), overlaps: true},
			{name: "touching endpoints do not overlap", a: rng(t, 0, 2), b: rng(t, 2, 4), overlaps: false},
			{name: "disjoint", a: rng(t, 0, 1), b: rng(t, 3, 4), overlaps: false},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				assert.Equal(t, c.overlaps, c.a.Overlaps(c.b))
				assert.Equal(t, c.overlaps, c.b.Overlaps(c.a), "overlap must be symmetric")
			})
		}
	})

	t.Run("contains is start-inclusive end-exclusive", func(t *testing.T) {
		r := rng(t, 0, 2)
		assert.True(t, r.Contains(r.Start()))
		assert.True(t, r.Contains(r.Start().Add(time.Hour)))
		assert.False(t, r.Contains(r.End()))
		assert.False(t, r.Contains(r.Start().Add(-time.Nanosecond)))
	})

	t.Run("covers", func(t *testing.T) {
		outer := rng(t, 0, 4)
		assert.True(t, outer.Covers(rng(t, 0, 4)))
		assert.True(t, outer.Covers(rng(t, 1, 3)))
		assert.False(t, outer.Covers(rng(t, 3, 5)))
		assert.False(t, rng(t, 1, 3).Covers(outer))
	})

	t.Run("duration", func(t *testing.T) {
		assert.Equal(t, 2*time.Hour, rng(t, 0, 2).Duration())
	})
}

func TestMoney(t *testing.T) {
	m, err := booking.NewMoney(1500)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), m.Cents())

	_, err = booking.NewMoney(-1)
	assert.ErrorIs(t, err, booking.ErrNegativeAmount)

	other, err := booking.NewMoney(500)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), m.Add(other).Cents())
}

func TestReason(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  string
		errIs error
	}{
		{name: "valid reason", value: "double booked", want: "double booked"},
		{name: "trimmed", value: "  schedule conflict  ", want: "schedule conflict"},
		{name: "empty", value: "", errIs: booking.ErrEmptyReason},
		{name: "whitespace only", value: "   ", errIs: booking.ErrEmptyReason},
		{name: "maximum length", value: strings.Repeat("a", booking.MaxReasonLength), want: strings.Repeat("a", booking.MaxReasonLength)},
		{name: "too long", value: strings.Repeat("a", booking.MaxReasonLength+1), errIs: booking.ErrReasonTooLong},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := booking.NewReason(c.value)
			if c.errIs != nil {
				require.ErrorIs(t, err, c.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, r.String())
		})
	}
}
