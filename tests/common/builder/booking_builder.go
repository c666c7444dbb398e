//go:build unit || e2e

package builder

import (
	"time"

	dombooking "eropoppin-booking/internal/domain/booking"
	reqdto "eropoppin-booking/internal/handler/dto/request"
	"eropoppin-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID              uuid.UUID
	ProviderID      uuid.UUID
	ProviderName    string
	ClientID        uuid.UUID
	StartTime       time.Time
	EndTime         time.Time
	Status          dombooking.Status
	StatusReason    *string
	Services        []dombooking.ServiceSnapshot
	TotalCents      int64
	Currency        string
	DepositCents    *int64
	DepositPaid     bool
	DepositRequired bool
	IDRequired      bool
	ScreeningReq    bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	serviceID := uuid.New()
	return &BookingBuilder{
		ID:           uuid.New(),
		ProviderID:   uuid.New(),
		ProviderName: "Test Provider",
		ClientID:     uuid.New(),
		StartTime:    now.Add(48 * time.Hour),
		EndTime:      now.Add(50 * time.Hour),
		Status:       dombooking.StatusPending,
		Services: []dombooking.ServiceSnapshot{
			{ServiceID: serviceID, Label: "Standard", Duration: 2 * time.Hour, PriceCents: 20000},
		},
		TotalCents: 20000,
		Currency:   "EUR",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildDomain() *dombooking.Booking {
	payment := dombooking.Payment{
		TotalCents: b.TotalCents,
		Currency:   b.Currency,
	}
	if b.DepositCents != nil {
		payment.Deposit = &dombooking.Deposit{AmountCents: *b.DepositCents, Paid: b.DepositPaid}
	}

	var reason *dombooking.Reason
	if b.StatusReason != nil {
		r, err := dombooking.NewReason(*b.StatusReason)
		if err == nil {
			reason = &r
		}
	}

	return dombooking.ReconstructBooking(
		b.ID, b.ProviderID, b.ClientID,
		dombooking.MustTimeRange(b.StartTime, b.EndTime),
		b.Services,
		b.Status,
		payment,
		dombooking.Requirements{
			DepositRequired:        b.DepositRequired,
			IdentificationRequired: b.IDRequired,
			ScreeningRequired:      b.ScreeningReq,
		},
		reason,
		b.CreatedAt, b.UpdatedAt,
	)
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	lines := make([]queries.ServiceLine, len(b.Services))
	for i, s := range b.Services {
		lines[i] = queries.ServiceLine{
			ServiceID:   s.ServiceID,
			Label:       s.Label,
			DurationMin: int64(s.Duration / time.Minute),
			PriceCents:  s.PriceCents,
		}
	}
	return &queries.BookingView{
		ID:            b.ID,
		ProviderID:    b.ProviderID,
		ProviderName:  b.ProviderName,
		ClientID:      b.ClientID,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Status:        b.Status.String(),
		StatusReason:  b.StatusReason,
		Services:      lines,
		TotalCents:    b.TotalCents,
		Currency:      b.Currency,
		DepositCents:  b.DepositCents,
		DepositPaid:   b.DepositPaid,
		DepositNeeded: b.DepositRequired,
		IDRequired:    b.IDRequired,
		ScreeningReq:  b.ScreeningReq,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	serviceIDs := make([]uuid.UUID, len(b.Services))
	for i, s := range b.Services {
		serviceIDs[i] = s.ServiceID
	}
	return reqdto.CreateBookingRequest{
		ProviderID: b.ProviderID,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		ServiceIDs: serviceIDs,
	}
}
