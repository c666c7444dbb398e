package commands

import (
	"context"
	"time"

	"eropoppin-booking/internal/domain/availability"
	"eropoppin-booking/internal/domain/booking"
	"eropoppin-booking/internal/infra"
	"eropoppin-booking/internal/pkg/errs"
	"eropoppin-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type WeeklyWindowInput struct {
	Weekday     int
	StartMinute int
	EndMinute   int
}

type ExceptionInput struct {
	Kind      string
	StartTime time.Time
	EndTime   time.Time
}

type ReplaceScheduleInput struct {
	ProviderID uuid.UUID
	Weekly     []WeeklyWindowInput
	Exceptions []ExceptionInput
	ActorID    uuid.UUID
	ActorRole  string
}

type AvailabilityCommands interface {
	// ReplaceSchedule swaps the provider's availability pattern wholesale.
	// Existing bookings are untouched; they keep blocking their ranges.
	ReplaceSchedule(ctx context.Context, in ReplaceScheduleInput) error
}

type availabilityCommandsImpl struct {
	uow           shared.UnitOfWork
	providerReads ProviderReads
	locks         ProviderLocks
}

func NewAvailabilityCommands(uow shared.UnitOfWork, providerReads ProviderReads, locks ProviderLocks) AvailabilityCommands {
	return &availabilityCommandsImpl{
		uow:           uow,
		providerReads: providerReads,
		locks:         locks,
	}
}

func (u *availabilityCommandsImpl) ReplaceSchedule(ctx context.Context, in ReplaceScheduleInput) error {
	if in.ActorRole != "admin" && in.ActorID != in.ProviderID {
		return errs.ErrForbidden
	}

	snap, err := u.providerReads.FindByID(ctx, in.ProviderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.ErrProviderNotFound
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	loc, err := time.LoadLocation(snap.Timezone)
	if err != nil {
		loc = time.UTC
	}

	weekly := make([]availability.WeeklyWindow, len(in.Weekly))
	for i, w := range in.Weekly {
		weekly[i] = availability.WeeklyWindow{
			Weekday:     time.Weekday(w.Weekday),
			StartMinute: w.StartMinute,
			EndMinute:   w.EndMinute,
		}
	}

	exceptions := make([]availability.Exception, len(in.Exceptions))
	for i, e := range in.Exceptions {
		r, err := booking.NewTimeRange(e.StartTime, e.EndTime)
		if err != nil {
			return err
		}
		exceptions[i] = availability.Exception{
			Kind:  availability.ExceptionKind(e.Kind),
			Range: r,
		}
	}

	sched, err := availability.NewSchedule(in.ProviderID, loc, weekly, exceptions)
	if err != nil {
		return err
	}

	unlock := u.locks.Acquire(in.ProviderID)
	defer unlock()

	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Schedules().Replace(ctx, tx.DB(), sched); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}
