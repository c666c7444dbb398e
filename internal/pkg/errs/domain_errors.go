package errs

import "errors"

// Sentinel errors surfaced by usecase layers and translated by handlers.
var (
	// Booking errors
	ErrBookingNotFound     = errors.New("booking not found")
	ErrSlotUnavailable     = errors.New("slot unavailable")
	ErrOutsideAvailability = errors.New("outside provider availability")

	// Provider errors
	ErrProviderNotFound = errors.New("provider not found")

	// Authorization errors
	ErrForbidden = errors.New("actor may not perform this action")

	// Idempotency errors
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyInProgress  = errors.New("idempotency in progress")
	ErrDuplicateRequest       = errors.New("duplicate request")

	// Payment errors
	ErrPaymentFailed = errors.New("payment operation failed")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
