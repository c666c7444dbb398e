package request

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ProviderID uuid.UUID   `json:"provider_id" binding:"required"`
	StartTime  time.Time   `json:"start_time" binding:"required"`
	EndTime    time.Time   `json:"end_time" binding:"required"`
	ServiceIDs []uuid.UUID `json:"service_ids" binding:"required,min=1"`
	ExtraIDs   []uuid.UUID `json:"extra_ids,omitempty"`
}

type TransitionBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// GetReason normalizes whitespace-only reasons to absent.
func (r TransitionBookingRequest) GetReason() *string {
	if r.Reason == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.Reason)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
