package readstore

import (
	"context"
	"time"

	"eropoppin-booking/internal/domain/availability"
	"eropoppin-booking/internal/infra/writerepo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AvailabilityReadStore serves calendar inputs outside a transaction.
// It delegates to the write repositories so the schedule and blocking-range
// queries stay single-sourced; the pool satisfies db.DBTX directly.
type AvailabilityReadStore struct {
	pool      *pgxpool.Pool
	schedules *writerepo.ScheduleRepository
	bookings  *writerepo.BookingRepository
}

func NewAvailabilityReadStore(pool *pgxpool.Pool) *AvailabilityReadStore {
	return &AvailabilityReadStore{
		pool:      pool,
		schedules: writerepo.NewScheduleRepository(),
		bookings:  writerepo.NewBookingRepository(),
	}
}

func (r *AvailabilityReadStore) ScheduleByProvider(ctx context.Context, providerID uuid.UUID) (*availability.Schedule, error) {
	return r.schedules.FindByProvider(ctx, r.pool, providerID)
}

func (r *AvailabilityReadStore) BlockingEntries(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]availability.Entry, error) {
	return r.bookings.BlockingEntries(ctx, r.pool, providerID, from, to)
}
