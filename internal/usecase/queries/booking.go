package queries

import (
	"context"
	"time"

	"eropoppin-booking/internal/infra"
	"eropoppin-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID            uuid.UUID     `json:"id"`
	ProviderID    uuid.UUID     `json:"provider_id"`
	ProviderName  string        `json:"provider_name"`
	ClientID      uuid.UUID     `json:"client_id"`
	StartTime     time.Time     `json:"start_time"`
	EndTime       time.Time     `json:"end_time"`
	Status        string        `json:"status"`
	StatusReason  *string       `json:"status_reason,omitempty"`
	Services      []ServiceLine `json:"services"`
	TotalCents    int64         `json:"total_cents"`
	Currency      string        `json:"currency"`
	DepositCents  *int64        `json:"deposit_cents,omitempty"`
	DepositPaid   bool          `json:"deposit_paid"`
	DepositNeeded bool          `json:"deposit_required"`
	IDRequired    bool          `json:"identification_required"`
	ScreeningReq  bool          `json:"screening_required"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type ServiceLine struct {
	ServiceID   uuid.UUID `json:"service_id"`
	Label       string    `json:"label"`
	DurationMin int64     `json:"duration_min"`
	PriceCents  int64     `json:"price_cents"`
}

type BookingListItem struct {
	ID           uuid.UUID `json:"id"`
	ProviderID   uuid.UUID `json:"provider_id"`
	ProviderName string    `json:"provider_name"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
	TotalCents   int64     `json:"total_cents"`
	Currency     string    `json:"currency"`
	CreatedAt    time.Time `json:"created_at"`
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByClient(ctx context.Context, clientID uuid.UUID) ([]*BookingListItem, error)
}

type BookingQueries interface {
	// GetByID enforces participant visibility: only the booking's client,
	// its provider, or an admin may read it.
	GetByID(ctx context.Context, id, actorID uuid.UUID, actorRole string) (*BookingView, error)
	// GetByIDSystem bypasses visibility for internal read-after-write and
	// idempotency replay paths.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id, actorID uuid.UUID, actorRole string) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, err
	}
	if actorRole != "admin" && view.ClientID != actorID && view.ProviderID != actorID {
		return nil, errs.ErrForbidden
	}
	return view, nil
}

func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	return q.store.FindByID(ctx, id)
}

func (q *bookingQueriesImpl) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*BookingListItem, error) {
	return q.store.FindByClient(ctx, clientID)
}
