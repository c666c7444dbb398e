package booking

import (
	"time"

	"github.com/google/uuid"
)

// ServiceSnapshot captures a booked service's label, duration and price at
// booking time. Later catalog edits must not change historical bookings.
type ServiceSnapshot struct {
	ServiceID  uuid.UUID
	Label      string
	Duration   time.Duration
	PriceCents int64
}

// Requirements are the provider's screening flags copied onto the booking at
// creation time (policy snapshot, not a live reference).
type Requirements struct {
	DepositRequired        bool
	IdentificationRequired bool
	ScreeningRequired      bool
}

// Deposit is the upfront-payment fact: how much was asked and whether it has
// been captured. Distinct from Requirements.DepositRequired, which is policy.
type Deposit struct {
	AmountCents int64
	Paid        bool
}

type Payment struct {
	TotalCents int64
	Currency   string
	Deposit    *Deposit
}

// Booking is the aggregate root. Status changes go through Transition only;
// rows are never deleted, terminal bookings are retained for dispute history.
type Booking struct {
	id           uuid.UUID
	providerID   uuid.UUID
	clientID     uuid.UUID
	timeRange    TimeRange
	services     []ServiceSnapshot
	status       Status
	payment      Payment
	requirements Requirements
	statusReason *Reason
	createdAt    time.Time
	updatedAt    time.Time
}

func ReconstructBooking(
	id, providerID, clientID uuid.UUID,
	timeRange TimeRange,
	services []ServiceSnapshot,
	status Status,
	payment Payment,
	requirements Requirements,
	statusReason *Reason,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:           id,
		providerID:   providerID,
		clientID:     clientID,
		timeRange:    timeRange,
		services:     services,
		status:       status,
		payment:      payment,
		requirements: requirements,
		statusReason: statusReason,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (b *Booking) ID() uuid.UUID              { return b.id }
func (b *Booking) ProviderID() uuid.UUID      { return b.providerID }
func (b *Booking) ClientID() uuid.UUID        { return b.clientID }
func (b *Booking) TimeRange() TimeRange       { return b.timeRange }
func (b *Booking) Status() Status             { return b.status }
func (b *Booking) Payment() Payment           { return b.payment }
func (b *Booking) Requirements() Requirements { return b.requirements }
func (b *Booking) StatusReason() *Reason      { return b.statusReason }
func (b *Booking) CreatedAt() time.Time       { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time       { return b.updatedAt }

func (b *Booking) Services() []ServiceSnapshot {
	out := make([]ServiceSnapshot, len(b.services))
	copy(out, b.services)
	return out
}

func (b *Booking) DepositRequired() bool {
	return b.requirements.DepositRequired
}

func (b *Booking) DepositPaid() bool {
	return b.payment.Deposit != nil && b.payment.Deposit.Paid
}

// MarkDepositPaid records the capture fact reported by the payment
// collaborator. Allowed only while the booking can still be confirmed.
func (b *Booking) MarkDepositPaid() error {
	if b.status.IsTerminal() {
		return &TransitionError{From: b.status, Event: "deposit", Cause: "booking is terminal"}
	}
	if b.payment.Deposit == nil {
		return &TransitionError{From: b.status, Event: "deposit", Cause: "no deposit on booking"}
	}
	b.payment.Deposit.Paid = true
	return nil
}
