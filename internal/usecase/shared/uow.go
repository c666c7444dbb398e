package shared

import (
	"context"
	"time"

	"eropoppin-booking/internal/domain/availability"
	"eropoppin-booking/internal/domain/booking"
	"eropoppin-booking/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full read-committed transaction for write operations, retried
	// on serialization failures and deadlocks.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: read-only transaction for multi-table consistent reads.
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// WithDB: single query operations using implicit transactions.
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
}

type Tx interface {
	Bookings() BookingRepository
	Schedules() ScheduleRepository
	Notifications() NotificationRepository
	DB() db.DBTX
}

type BookingRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) (uuid.UUID, error)
	// FindByIDForUpdate row-locks the booking so transitions on the same
	// booking serialize even across processes.
	FindByIDForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	// UpdateState persists status, status reason, deposit-paid flag and
	// updated_at after a lifecycle transition.
	UpdateState(ctx context.Context, dbtx db.DBTX, b *booking.Booking) error
	// BlockingEntries returns pending/confirmed ranges intersecting
	// [from, to) for the provider, ordered by start.
	BlockingEntries(ctx context.Context, dbtx db.DBTX, providerID uuid.UUID, from, to time.Time) ([]availability.Entry, error)
}

type ScheduleRepository interface {
	// Replace swaps the provider's schedule wholesale (no partial patch).
	Replace(ctx context.Context, dbtx db.DBTX, sched *availability.Schedule) error
	FindByProvider(ctx context.Context, dbtx db.DBTX, providerID uuid.UUID) (*availability.Schedule, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, dbtx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
}

type IdempotencyRepository interface {
	// TryInsert claims the key with status "processing". The bool reports
	// whether this request made the claim; false means the key already
	// exists and Get should be consulted.
	TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
	UpdateStatusCompleted(ctx context.Context, dbtx db.DBTX, key, userID uuid.UUID, resultHash string, bookingID uuid.UUID) error
	// Release drops a processing claim so the same key can retry after a
	// failed attempt. Completed records are never released.
	Release(ctx context.Context, key, userID uuid.UUID) error
}

type IdempotencyRecord struct {
	Key             uuid.UUID
	UserID          uuid.UUID
	Status          string
	RequestHash     string
	ResultBookingID *uuid.UUID
	ExpiresAt       time.Time
}
