//go:build unit

package booking_test

import (
	"testing"
	"time"

	"eropoppin-booking/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardPriceCalculator(t *testing.T) {
	calc := booking.NewStandardPriceCalculator()

	t.Run("whole hours at whole rate round-trip exactly", func(t *testing.T) {
		q, err := calc.Quote(10000, 3*time.Hour, nil, booking.DepositPolicy{})
		require.NoError(t, err)
		assert.Equal(t, int64(30000), q.SubtotalCents)
		assert.Equal(t, int64(0), q.ExtrasCents)
		assert.Equal(t, int64(30000), q.TotalCents)
		assert.Nil(t, q.DepositCents)
	})

	t.Run("partial hours price at minute resolution", func(t *testing.T) {
		// 90 min at 100.00/h = 150.00
		q, err := calc.Quote(10000, 90*time.Minute, nil, booking.DepositPolicy{})
		require.NoError(t, err)
		assert.Equal(t, int64(15000), q.SubtotalCents)

		// 10000 * 45 / 60 = 7500, no float rounding
		q, err = calc.Quote(10000, 45*time.Minute, nil, booking.DepositPolicy{})
		require.NoError(t, err)
		assert.Equal(t, int64(7500), q.SubtotalCents)
	})

	t.Run("extras are additive line items", func(t *testing.T) {
		extras := []booking.Extra{
			{ID: uuid.New(), Label: "Travel", PriceCents: 2500},
			{ID: uuid.New(), Label: "Outfit", PriceCents: 1000},
		}
		q, err := calc.Quote(10000, 2*time.Hour, extras, booking.DepositPolicy{})
		require.NoError(t, err)
		assert.Equal(t, int64(20000), q.SubtotalCents)
		assert.Equal(t, int64(3500), q.ExtrasCents)
		assert.Equal(t, int64(23500), q.TotalCents)
	})

	t.Run("deposit policy yields a deposit line", func(t *testing.T) {
		q, err := calc.Quote(10000, time.Hour, nil, booking.DepositPolicy{Required: true, AmountCents: 5000})
		require.NoError(t, err)
		require.NotNil(t, q.DepositCents)
		assert.Equal(t, int64(5000), *q.DepositCents)
	})

	t.Run("invalid input", func(t *testing.T) {
		cases := []struct {
			name     string
			rate     int64
			duration time.Duration
			extras   []booking.Extra
		}{
			{name: "zero duration", rate: 10000, duration: 0},
			{name: "negative duration", rate: 10000, duration: -time.Hour},
			{name: "negative rate", rate: -1, duration: time.Hour},
			{name: "negative extra", rate: 10000, duration: time.Hour, extras: []booking.Extra{{PriceCents: -100}}},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				_, err := calc.Quote(c.rate, c.duration, c.extras, booking.DepositPolicy{})
				assert.ErrorIs(t, err, booking.ErrInvalidInput)
			})
		}
	})

	t.Run("zero rate is free, not an error", func(t *testing.T) {
		q, err := calc.Quote(0, 2*time.Hour, nil, booking.DepositPolicy{})
		require.NoError(t, err)
		assert.Equal(t, int64(0), q.TotalCents)
	})
}
