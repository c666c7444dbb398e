package booking

import (
	"eropoppin-booking/internal/domain/provider"
	"eropoppin-booking/internal/pkg/clock"

	"github.com/google/uuid"
)

// Factory builds pending bookings for the scheduler. It snapshots the
// provider's price and requirement flags so later profile edits never leak
// into existing bookings.
type Factory struct {
	Clock           clock.Clock
	PriceCalculator PriceCalculator
}

func NewFactory(clk clock.Clock, calc PriceCalculator) *Factory {
	return &Factory{
		Clock:           clk,
		PriceCalculator: calc,
	}
}

func (f *Factory) CreateBooking(
	prov *provider.Provider,
	clientID uuid.UUID,
	timeRange TimeRange,
	services []ServiceSnapshot,
	extras []Extra,
) (*Booking, error) {
	policy := DepositPolicy{
		Required:    prov.DepositRequired(),
		AmountCents: prov.DepositCents(),
	}

	quote, err := f.PriceCalculator.Quote(prov.HourlyRateCents(), timeRange.Duration(), extras, policy)
	if err != nil {
		return nil, err
	}

	payment := Payment{
		TotalCents: quote.TotalCents,
		Currency:   prov.Currency(),
	}
	if quote.DepositCents != nil {
		payment.Deposit = &Deposit{AmountCents: *quote.DepositCents}
	}

	now := f.Clock.Now()
	snapshots := make([]ServiceSnapshot, len(services))
	copy(snapshots, services)

	return &Booking{
		id:         uuid.New(),
		providerID: prov.ID(),
		clientID:   clientID,
		timeRange:  timeRange,
		services:   snapshots,
		status:     StatusPending,
		payment:    payment,
		requirements: Requirements{
			DepositRequired:        prov.DepositRequired(),
			IdentificationRequired: prov.IdentificationRequired(),
			ScreeningRequired:      prov.ScreeningRequired(),
		},
		createdAt: now,
		updatedAt: now,
	}, nil
}
