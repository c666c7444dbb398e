package commands

import (
	"context"

	"github.com/google/uuid"
)

// Write-side snapshots prevent dependency on read-side query types.
type ProviderSnapshot struct {
	ID              uuid.UUID
	DisplayName     string
	HourlyRateCents int64
	Currency        string
	DepositRequired bool
	DepositCents    int64
	IDRequired      bool
	ScreeningReq    bool
	Timezone        string
}

type ServiceSnapshot struct {
	ServiceID   uuid.UUID
	Label       string
	DurationMin int64
	PriceCents  int64
}

type ExtraSnapshot struct {
	ExtraID    uuid.UUID
	Label      string
	PriceCents int64
}

// ProviderReads is the provider catalog as the write side sees it: profile
// plus the bookable services and extras, priced as of now.
type ProviderReads interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProviderSnapshot, error)
	ServicesByIDs(ctx context.Context, providerID uuid.UUID, ids []uuid.UUID) ([]ServiceSnapshot, error)
	ExtrasByIDs(ctx context.Context, providerID uuid.UUID, ids []uuid.UUID) ([]ExtraSnapshot, error)
}

// PaymentGateway is the payment-processor collaborator, invoked only at
// lifecycle transition boundaries and never assumed synchronous-instant.
type PaymentGateway interface {
	CaptureDeposit(ctx context.Context, bookingID uuid.UUID, amountCents int64, currency string) error
	RefundDeposit(ctx context.Context, bookingID uuid.UUID, amountCents int64, currency string) error
}

// ProviderLocks serializes calendar mutations per provider. The returned
// func releases the lock.
type ProviderLocks interface {
	Acquire(providerID uuid.UUID) func()
}
