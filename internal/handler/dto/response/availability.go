package response

import (
	"time"

	"eropoppin-booking/internal/usecase/queries"
)

type FreeSlotResponse struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

type AvailabilityResponse struct {
	Slots []FreeSlotResponse `json:"slots"`
}

func FromFreeSlots(slots []queries.FreeSlot) *AvailabilityResponse {
	out := make([]FreeSlotResponse, len(slots))
	for i, s := range slots {
		out[i] = FreeSlotResponse{StartTime: s.StartTime, EndTime: s.EndTime}
	}
	return &AvailabilityResponse{Slots: out}
}
