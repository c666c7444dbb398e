package payment

import (
	"context"
	"fmt"

	"eropoppin-booking/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
)

var errIntentNotFound = errs.New("no payment intent for booking")

// StripeGateway captures and refunds booking deposits. Deposits are
// pre-authorized by the client app at request time as uncaptured
// PaymentIntents tagged with the booking id; this gateway only moves the
// already-authorized money.
type StripeGateway struct{}

func NewStripeGateway(apiKey string) *StripeGateway {
	stripe.Key = apiKey
	return &StripeGateway{}
}

func (g *StripeGateway) CaptureDeposit(ctx context.Context, bookingID uuid.UUID, amountCents int64, currency string) error {
	intent, err := g.findIntent(ctx, bookingID)
	if err != nil {
		return err
	}

	params := &stripe.PaymentIntentCaptureParams{
		AmountToCapture: stripe.Int64(amountCents),
	}
	params.Context = ctx
	params.SetIdempotencyKey("capture-" + bookingID.String())

	if _, err := paymentintent.Capture(intent.ID, params); err != nil {
		return errs.Wrap(err, "failed to capture deposit")
	}
	return nil
}

func (g *StripeGateway) RefundDeposit(ctx context.Context, bookingID uuid.UUID, amountCents int64, currency string) error {
	intent, err := g.findIntent(ctx, bookingID)
	if err != nil {
		return err
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(intent.ID),
		Amount:        stripe.Int64(amountCents),
	}
	params.Context = ctx
	params.SetIdempotencyKey("refund-" + bookingID.String())

	if _, err := refund.New(params); err != nil {
		return errs.Wrap(err, "failed to refund deposit")
	}
	return nil
}

func (g *StripeGateway) findIntent(ctx context.Context, bookingID uuid.UUID) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentSearchParams{}
	params.Context = ctx
	params.Query = fmt.Sprintf("metadata['booking_id']:'%s'", bookingID)

	iter := paymentintent.Search(params)
	for iter.Next() {
		return iter.PaymentIntent(), nil
	}
	if err := iter.Err(); err != nil {
		return nil, errs.Wrap(err, "failed to search payment intents")
	}
	return nil, errs.Wrap(errIntentNotFound, bookingID.String())
}
