package booking

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTransition matches any *TransitionError via errors.Is.
var ErrInvalidTransition = errors.New("invalid booking transition")

// TransitionError names the current state, the attempted event and why the
// transition was refused.
type TransitionError struct {
	From  Status
	Event Event
	Cause string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s booking in status %q: %s", e.Event, e.From, e.Cause)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// TransitionInput carries the event payload. Reason is mandatory for reject
// and cancel; Now gates completion against the range end.
type TransitionInput struct {
	Reason *Reason
	Now    time.Time
}

// Transition drives the lifecycle state machine:
//
//	pending   --confirm-->  confirmed   (deposit captured if required)
//	pending   --reject--->  rejected    (reason required)
//	pending   --cancel--->  cancelled   (reason required)
//	confirmed --cancel--->  cancelled   (reason required)
//	confirmed --complete->  completed   (only after the range has ended)
//
// completed, cancelled and rejected are terminal. The entity is mutated only
// when nil is returned; on error the booking keeps its prior state.
func (b *Booking) Transition(event Event, in TransitionInput) error {
	if b.status.IsTerminal() {
		return &TransitionError{From: b.status, Event: event, Cause: "status is terminal"}
	}

	switch event {
	case EventConfirm:
		return b.confirm(in)
	case EventReject:
		return b.reject(in)
	case EventCancel:
		return b.cancel(in)
	case EventComplete:
		return b.complete(in)
	default:
		return &TransitionError{From: b.status, Event: event, Cause: "unknown event"}
	}
}

func (b *Booking) confirm(in TransitionInput) error {
	if b.status != StatusPending {
		return &TransitionError{From: b.status, Event: EventConfirm, Cause: "only pending bookings can be confirmed"}
	}
	if b.requirements.DepositRequired && !b.DepositPaid() {
		return &TransitionError{From: b.status, Event: EventConfirm, Cause: "deposit has not been captured"}
	}
	b.setStatus(StatusConfirmed, nil, in.Now)
	return nil
}

func (b *Booking) reject(in TransitionInput) error {
	if b.status != StatusPending {
		return &TransitionError{From: b.status, Event: EventReject, Cause: "only pending bookings can be rejected"}
	}
	if in.Reason == nil || in.Reason.IsEmpty() {
		return &TransitionError{From: b.status, Event: EventReject, Cause: "a reason is required"}
	}
	b.setStatus(StatusRejected, in.Reason, in.Now)
	return nil
}

func (b *Booking) cancel(in TransitionInput) error {
	if b.status != StatusPending && b.status != StatusConfirmed {
		return &TransitionError{From: b.status, Event: EventCancel, Cause: "only pending or confirmed bookings can be cancelled"}
	}
	if in.Reason == nil || in.Reason.IsEmpty() {
		return &TransitionError{From: b.status, Event: EventCancel, Cause: "a reason is required"}
	}
	b.setStatus(StatusCancelled, in.Reason, in.Now)
	return nil
}

func (b *Booking) complete(in TransitionInput) error {
	if b.status != StatusConfirmed {
		return &TransitionError{From: b.status, Event: EventComplete, Cause: "only confirmed bookings can be completed"}
	}
	if in.Now.Before(b.timeRange.End()) {
		return &TransitionError{From: b.status, Event: EventComplete, Cause: "the booked range has not ended yet"}
	}
	b.setStatus(StatusCompleted, nil, in.Now)
	return nil
}

// RefundEligible reports whether a cancellation should trigger a deposit
// refund. The refund amount policy itself lives with the payment processor.
func (b *Booking) RefundEligible() bool {
	return b.status == StatusCancelled && b.DepositPaid()
}

func (b *Booking) setStatus(s Status, reason *Reason, now time.Time) {
	b.status = s
	b.statusReason = reason
	if !now.IsZero() {
		b.updatedAt = now
	}
}
