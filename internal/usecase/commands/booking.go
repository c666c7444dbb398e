package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"eropoppin-booking/internal/domain/availability"
	"eropoppin-booking/internal/domain/booking"
	"eropoppin-booking/internal/domain/provider"
	"eropoppin-booking/internal/infra"
	"eropoppin-booking/internal/pkg/clock"
	"eropoppin-booking/internal/pkg/errs"
	"eropoppin-booking/internal/usecase/queries"
	"eropoppin-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type RequestBookingInput struct {
	ProviderID uuid.UUID
	StartTime  time.Time
	EndTime    time.Time
	ServiceIDs []uuid.UUID
	ExtraIDs   []uuid.UUID
}

type TransitionInput struct {
	Event     booking.Event
	Reason    *string
	ActorID   uuid.UUID
	ActorRole string
}

type CreateBookingResult struct {
	Booking    *queries.BookingView
	IsReplayed bool
}

type BookingCommands interface {
	// RequestBooking validates the request, checks the provider's calendar
	// and creates a pending booking. The free-check and the insert run under
	// the provider's lock inside one transaction, so two concurrent requests
	// for overlapping ranges can never both succeed.
	RequestBooking(ctx context.Context, in RequestBookingInput, clientID, idempotencyKey uuid.UUID) (*CreateBookingResult, error)
	// Transition applies a lifecycle event (confirm/reject/cancel/complete).
	// Payment side effects happen before commit: a processor failure leaves
	// the booking in its prior state.
	Transition(ctx context.Context, bookingID uuid.UUID, in TransitionInput) (*queries.BookingView, error)
}

type bookingCommandsImpl struct {
	uow            shared.UnitOfWork
	providerReads  ProviderReads
	idempotency    shared.IdempotencyRepository
	factory        *booking.Factory
	bookingQueries queries.BookingQueries
	payments       PaymentGateway
	locks          ProviderLocks
	clock          clock.Clock
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	providerReads ProviderReads,
	idempotency shared.IdempotencyRepository,
	factory *booking.Factory,
	bookingQueries queries.BookingQueries,
	payments PaymentGateway,
	locks ProviderLocks,
	clk clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:            uow,
		providerReads:  providerReads,
		idempotency:    idempotency,
		factory:        factory,
		bookingQueries: bookingQueries,
		payments:       payments,
		locks:          locks,
		clock:          clk,
	}
}

func (u *bookingCommandsImpl) RequestBooking(
	ctx context.Context,
	in RequestBookingInput,
	clientID, idempotencyKey uuid.UUID,
) (*CreateBookingResult, error) {
	requestHash := u.calculateRequestHash(in, clientID)
	expiresAt := u.clock.Now().Add(24 * time.Hour)

	replayed, err := u.handleIdempotency(ctx, idempotencyKey, clientID, requestHash, expiresAt)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return &CreateBookingResult{Booking: replayed, IsReplayed: true}, nil
	}

	view, err := u.createBooking(ctx, in, clientID, idempotencyKey)
	if err != nil {
		// A failed attempt must not wedge the key until it expires; release
		// is best effort, the caller still sees the original failure.
		_ = u.idempotency.Release(ctx, idempotencyKey, clientID)
		return nil, err
	}
	return &CreateBookingResult{Booking: view, IsReplayed: false}, nil
}

func (u *bookingCommandsImpl) createBooking(
	ctx context.Context,
	in RequestBookingInput,
	clientID, idempotencyKey uuid.UUID,
) (*queries.BookingView, error) {
	timeRange, err := booking.NewTimeRange(in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}
	if len(in.ServiceIDs) == 0 {
		return nil, errs.Mark(errs.New("at least one service is required"), booking.ErrInvalidInput)
	}

	prov, err := u.loadProvider(ctx, in.ProviderID)
	if err != nil {
		return nil, err
	}

	services, extras, err := u.snapshotCatalog(ctx, in)
	if err != nil {
		return nil, err
	}

	// The lock spans the whole check-then-reserve section including the
	// transaction commit; a second request for this provider waits here.
	unlock := u.locks.Acquire(in.ProviderID)
	defer unlock()

	var bookingID uuid.UUID
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sched, err := tx.Schedules().FindByProvider(ctx, tx.DB(), in.ProviderID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if sched == nil || !sched.Covers(timeRange) {
			return errs.ErrOutsideAvailability
		}

		entries, err := tx.Bookings().BlockingEntries(ctx, tx.DB(), in.ProviderID, timeRange.Start(), timeRange.End())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		cal, err := availability.NewCalendar(entries)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !cal.IsFree(timeRange) {
			return errs.ErrSlotUnavailable
		}

		entity, err := u.factory.CreateBooking(prov, clientID, timeRange, services, extras)
		if err != nil {
			return err
		}
		if err := cal.Reserve(entity.ID(), timeRange); err != nil {
			return errs.ErrSlotUnavailable
		}

		id, err := tx.Bookings().Create(ctx, tx.DB(), entity)
		if err != nil {
			// The exclusion constraint is the second line of defense against
			// writers outside this process.
			if infra.IsKind(err, infra.KindConflict) {
				return errs.ErrSlotUnavailable
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		bookingID = id

		if err := u.enqueueNotification(ctx, tx, id, "booking_requested"); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		resultHash := u.calculateIDHash(id)
		if err := u.idempotency.UpdateStatusCompleted(ctx, tx.DB(), idempotencyKey, clientID, resultHash, id); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.bookingQueries.GetByIDSystem(ctx, bookingID)
}

func (u *bookingCommandsImpl) Transition(
	ctx context.Context,
	bookingID uuid.UUID,
	in TransitionInput,
) (*queries.BookingView, error) {
	// Resolve the provider before locking; the authoritative row is
	// re-read with FOR UPDATE inside the transaction.
	current, err := u.bookingQueries.GetByIDSystem(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	unlock := u.locks.Acquire(current.ProviderID)
	defer unlock()

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Bookings().FindByIDForUpdate(ctx, tx.DB(), bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrBookingNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := authorizeTransition(entity, in); err != nil {
			return err
		}

		reason, err := parseReason(entity, in)
		if err != nil {
			return err
		}

		if in.Event == booking.EventConfirm && entity.Status() == booking.StatusPending {
			if err := u.captureDepositIfDue(ctx, entity); err != nil {
				return err
			}
		}

		if err := entity.Transition(in.Event, booking.TransitionInput{
			Reason: reason,
			Now:    u.clock.Now(),
		}); err != nil {
			return err
		}

		if entity.RefundEligible() {
			dep := entity.Payment().Deposit
			if err := u.payments.RefundDeposit(ctx, entity.ID(), dep.AmountCents, entity.Payment().Currency); err != nil {
				return errs.Mark(err, errs.ErrPaymentFailed)
			}
		}

		if err := tx.Bookings().UpdateState(ctx, tx.DB(), entity); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		topic := "booking_" + entity.Status().String()
		if err := u.enqueueNotification(ctx, tx, entity.ID(), topic); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.bookingQueries.GetByIDSystem(ctx, bookingID)
}

func (u *bookingCommandsImpl) loadProvider(ctx context.Context, providerID uuid.UUID) (*provider.Provider, error) {
	snap, err := u.providerReads.FindByID(ctx, providerID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrProviderNotFound
		}
		return nil, errs.Mark(err, errs.ErrProviderNotFound)
	}

	loc, err := time.LoadLocation(snap.Timezone)
	if err != nil {
		loc = time.UTC
	}

	return provider.NewProvider(
		snap.ID,
		snap.DisplayName,
		snap.HourlyRateCents,
		snap.Currency,
		snap.DepositRequired,
		snap.DepositCents,
		snap.IDRequired,
		snap.ScreeningReq,
		loc,
	)
}

func (u *bookingCommandsImpl) snapshotCatalog(ctx context.Context, in RequestBookingInput) ([]booking.ServiceSnapshot, []booking.Extra, error) {
	serviceRows, err := u.providerReads.ServicesByIDs(ctx, in.ProviderID, in.ServiceIDs)
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if len(serviceRows) != len(in.ServiceIDs) {
		return nil, nil, errs.Mark(errs.New("unknown service for provider"), booking.ErrInvalidInput)
	}

	services := make([]booking.ServiceSnapshot, len(serviceRows))
	for i, row := range serviceRows {
		services[i] = booking.ServiceSnapshot{
			ServiceID:  row.ServiceID,
			Label:      row.Label,
			Duration:   time.Duration(row.DurationMin) * time.Minute,
			PriceCents: row.PriceCents,
		}
	}

	var extras []booking.Extra
	if len(in.ExtraIDs) > 0 {
		extraRows, err := u.providerReads.ExtrasByIDs(ctx, in.ProviderID, in.ExtraIDs)
		if err != nil {
			return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if len(extraRows) != len(in.ExtraIDs) {
			return nil, nil, errs.Mark(errs.New("unknown extra for provider"), booking.ErrInvalidInput)
		}
		extras = make([]booking.Extra, len(extraRows))
		for i, row := range extraRows {
			extras[i] = booking.Extra{
				ID:         row.ExtraID,
				Label:      row.Label,
				PriceCents: row.PriceCents,
			}
		}
	}

	return services, extras, nil
}

// captureDepositIfDue charges the deposit right before the confirm guard
// runs. Status is checked by the caller so a doomed transition never
// triggers a capture.
func (u *bookingCommandsImpl) captureDepositIfDue(ctx context.Context, entity *booking.Booking) error {
	if !entity.DepositRequired() || entity.DepositPaid() {
		return nil
	}
	dep := entity.Payment().Deposit
	if dep == nil {
		return errs.Mark(errs.New("deposit required but no deposit record"), booking.ErrInvalidTransition)
	}
	if err := u.payments.CaptureDeposit(ctx, entity.ID(), dep.AmountCents, entity.Payment().Currency); err != nil {
		return errs.Mark(err, errs.ErrPaymentFailed)
	}
	return entity.MarkDepositPaid()
}

func authorizeTransition(entity *booking.Booking, in TransitionInput) error {
	if in.ActorRole == "admin" {
		return nil
	}
	switch in.Event {
	case booking.EventConfirm, booking.EventReject, booking.EventComplete:
		if in.ActorID != entity.ProviderID() {
			return errs.ErrForbidden
		}
	case booking.EventCancel:
		if in.ActorID != entity.ProviderID() && in.ActorID != entity.ClientID() {
			return errs.ErrForbidden
		}
	default:
		return errs.ErrForbidden
	}
	return nil
}

func parseReason(entity *booking.Booking, in TransitionInput) (*booking.Reason, error) {
	if in.Reason == nil {
		return nil, nil
	}
	r, err := booking.NewReason(*in.Reason)
	if err != nil {
		return nil, &booking.TransitionError{
			From:  entity.Status(),
			Event: in.Event,
			Cause: err.Error(),
		}
	}
	return &r, nil
}

func (u *bookingCommandsImpl) handleIdempotency(
	ctx context.Context,
	key, clientID uuid.UUID,
	requestHash string,
	expiresAt time.Time,
) (*queries.BookingView, error) {
	claimed, err := u.idempotency.TryInsert(ctx, key, clientID, "POST /bookings", requestHash, expiresAt)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if claimed {
		return nil, nil
	}

	record, err := u.idempotency.Get(ctx, key, clientID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	switch record.Status {
	case "completed":
		if record.RequestHash != requestHash {
			return nil, errs.ErrDuplicateRequest
		}
		if record.ResultBookingID == nil {
			return nil, errs.New("completed request missing result booking id")
		}
		return u.bookingQueries.GetByIDSystem(ctx, *record.ResultBookingID)
	case "processing":
		if record.RequestHash != requestHash {
			return nil, errs.ErrDuplicateRequest
		}
		return nil, errs.ErrIdempotencyInProgress
	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func (u *bookingCommandsImpl) enqueueNotification(ctx context.Context, tx shared.Tx, bookingID uuid.UUID, topic string) error {
	payload, err := json.Marshal(map[string]any{
		"booking_id": bookingID,
		"type":       topic,
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, tx.DB(), "email", topic, payload, u.clock.Now())
}

func (u *bookingCommandsImpl) calculateRequestHash(in RequestBookingInput, clientID uuid.UUID) string {
	data, _ := json.Marshal(struct {
		RequestBookingInput
		ClientID uuid.UUID
	}{in, clientID})
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func (u *bookingCommandsImpl) calculateIDHash(id uuid.UUID) string {
	hash := sha256.Sum256([]byte(id.String()))
	return hex.EncodeToString(hash[:])
}
