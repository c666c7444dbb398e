//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"eropoppin-booking/internal/domain/availability"
	"eropoppin-booking/internal/domain/booking"
	"eropoppin-booking/internal/infra"
	"eropoppin-booking/internal/pkg/errs"
	"eropoppin-booking/internal/usecase/queries"
	"eropoppin-booking/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monday matches the fixture schedule's first open day.
var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

type stubAvailabilityStore struct {
	schedule *availability.Schedule
	entries  []availability.Entry
	missing  bool
}

func (s *stubAvailabilityStore) ScheduleByProvider(_ context.Context, _ uuid.UUID) (*availability.Schedule, error) {
	if s.missing {
		return nil, infra.WrapRepoErr("provider not found", nil, infra.KindNotFound)
	}
	return s.schedule, nil
}

func (s *stubAvailabilityStore) BlockingEntries(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]availability.Entry, error) {
	return s.entries, nil
}

func mondaySchedule(t *testing.T) *availability.Schedule {
	t.Helper()
	prov := builder.NewProviderBuilder()
	prov.Weekly = []availability.WeeklyWindow{
		{Weekday: time.Monday, StartMinute: 9 * 60, EndMinute: 18 * 60},
	}
	sched, err := prov.BuildSchedule()
	require.NoError(t, err)
	return sched
}

func TestListFreeSlots(t *testing.T) {
	ctx := context.Background()
	providerID := uuid.New()
	from := monday
	to := monday.AddDate(0, 0, 1)

	t.Run("bookings split the open window", func(t *testing.T) {
		store := &stubAvailabilityStore{
			schedule: mondaySchedule(t),
			entries: []availability.Entry{
				{BookingID: uuid.New(), Range: booking.MustTimeRange(monday.Add(10*time.Hour), monday.Add(12*time.Hour))},
				{BookingID: uuid.New(), Range: booking.MustTimeRange(monday.Add(14*time.Hour), monday.Add(16*time.Hour))},
			},
		}
		q := queries.NewAvailabilityQueries(store)

		slots, err := q.ListFreeSlots(ctx, providerID, from, to)
		require.NoError(t, err)

		want := []queries.FreeSlot{
			{StartTime: monday.Add(9 * time.Hour), EndTime: monday.Add(10 * time.Hour)},
			{StartTime: monday.Add(12 * time.Hour), EndTime: monday.Add(14 * time.Hour)},
			{StartTime: monday.Add(16 * time.Hour), EndTime: monday.Add(18 * time.Hour)},
		}
		assert.Empty(t, cmp.Diff(want, slots))
	})

	t.Run("no bookings yields the whole window", func(t *testing.T) {
		q := queries.NewAvailabilityQueries(&stubAvailabilityStore{schedule: mondaySchedule(t)})

		slots, err := q.ListFreeSlots(ctx, providerID, from, to)
		require.NoError(t, err)

		require.Len(t, slots, 1)
		assert.True(t, slots[0].StartTime.Equal(monday.Add(9*time.Hour)))
		assert.True(t, slots[0].EndTime.Equal(monday.Add(18*time.Hour)))
	})

	t.Run("closed day yields no slots", func(t *testing.T) {
		q := queries.NewAvailabilityQueries(&stubAvailabilityStore{schedule: mondaySchedule(t)})

		tuesday := monday.AddDate(0, 0, 1)
		slots, err := q.ListFreeSlots(ctx, providerID, tuesday, tuesday.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("inverted query range", func(t *testing.T) {
		q := queries.NewAvailabilityQueries(&stubAvailabilityStore{schedule: mondaySchedule(t)})

		_, err := q.ListFreeSlots(ctx, providerID, to, from)
		assert.ErrorIs(t, err, booking.ErrInvalidRange)
	})

	t.Run("unknown provider", func(t *testing.T) {
		q := queries.NewAvailabilityQueries(&stubAvailabilityStore{missing: true})

		_, err := q.ListFreeSlots(ctx, providerID, from, to)
		assert.ErrorIs(t, err, errs.ErrProviderNotFound)
	})

	t.Run("provider without a published schedule", func(t *testing.T) {
		q := queries.NewAvailabilityQueries(&stubAvailabilityStore{schedule: nil})

		_, err := q.ListFreeSlots(ctx, providerID, from, to)
		assert.ErrorIs(t, err, errs.ErrProviderNotFound)
	})
}
