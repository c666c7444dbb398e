package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid pricing input")

// Extra is an add-on priced at booking time.
type Extra struct {
	ID         uuid.UUID
	Label      string
	PriceCents int64
}

// DepositPolicy comes from the provider profile: whether an upfront payment
// is required before confirmation, and how much.
type DepositPolicy struct {
	Required    bool
	AmountCents int64
}

// Quote is the price breakdown for a booking request. A platform fee, if one
// is ever introduced, must be an explicit additive line item here rather
// than folded into the rate.
type Quote struct {
	SubtotalCents int64
	ExtrasCents   int64
	TotalCents    int64
	DepositCents  *int64
}

type PriceCalculator interface {
	Quote(hourlyRateCents int64, duration time.Duration, extras []Extra, policy DepositPolicy) (Quote, error)
}

// StandardPriceCalculator prices time at the provider's hourly rate with
// minute resolution, all in integer cents. Sub-minute remainders truncate.
type StandardPriceCalculator struct{}

func NewStandardPriceCalculator() *StandardPriceCalculator {
	return &StandardPriceCalculator{}
}

func (c *StandardPriceCalculator) Quote(hourlyRateCents int64, duration time.Duration, extras []Extra, policy DepositPolicy) (Quote, error) {
	if duration <= 0 {
		return Quote{}, ErrInvalidInput
	}
	rate, err := NewMoney(hourlyRateCents)
	if err != nil {
		return Quote{}, ErrInvalidInput
	}
	if policy.Required {
		if _, err := NewMoney(policy.AmountCents); err != nil {
			return Quote{}, ErrInvalidInput
		}
	}

	minutes := int64(duration / time.Minute)
	subtotal := Money{cents: rate.Cents() * minutes / 60}

	var extrasTotal Money
	for _, e := range extras {
		price, err := NewMoney(e.PriceCents)
		if err != nil {
			return Quote{}, ErrInvalidInput
		}
		extrasTotal = extrasTotal.Add(price)
	}

	q := Quote{
		SubtotalCents: subtotal.Cents(),
		ExtrasCents:   extrasTotal.Cents(),
		TotalCents:    subtotal.Add(extrasTotal).Cents(),
	}
	if policy.Required {
		amount := policy.AmountCents
		q.DepositCents = &amount
	}
	return q, nil
}
