package queries

import (
	"context"
	"time"

	"eropoppin-booking/internal/domain/availability"
	"eropoppin-booking/internal/domain/booking"
	"eropoppin-booking/internal/infra"
	"eropoppin-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type FreeSlot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// AvailabilityReadStore provides the calendar inputs: the provider's
// schedule and the blocking (pending/confirmed) booking ranges.
type AvailabilityReadStore interface {
	ScheduleByProvider(ctx context.Context, providerID uuid.UUID) (*availability.Schedule, error)
	BlockingEntries(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]availability.Entry, error)
}

type AvailabilityQueries interface {
	// ListFreeSlots derives the provider's bookable ranges in [from, to):
	// expanded availability windows minus blocking bookings.
	ListFreeSlots(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]FreeSlot, error)
}

type availabilityQueriesImpl struct {
	store AvailabilityReadStore
}

func NewAvailabilityQueries(store AvailabilityReadStore) AvailabilityQueries {
	return &availabilityQueriesImpl{store: store}
}

func (q *availabilityQueriesImpl) ListFreeSlots(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]FreeSlot, error) {
	if _, err := booking.NewTimeRange(from, to); err != nil {
		return nil, err
	}

	sched, err := q.store.ScheduleByProvider(ctx, providerID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrProviderNotFound
		}
		return nil, err
	}
	if sched == nil {
		return nil, errs.ErrProviderNotFound
	}

	entries, err := q.store.BlockingEntries(ctx, providerID, from, to)
	if err != nil {
		return nil, err
	}

	cal, err := availability.NewCalendar(entries)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	slots := cal.FreeSlots(sched, from, to)
	out := make([]FreeSlot, len(slots))
	for i, s := range slots {
		out[i] = FreeSlot{StartTime: s.Start(), EndTime: s.End()}
	}
	return out, nil
}
