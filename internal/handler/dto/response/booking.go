package response

import (
	"time"

	"eropoppin-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID            uuid.UUID             `json:"id"`
	ProviderID    uuid.UUID             `json:"providerId"`
	ProviderName  string                `json:"providerName"`
	ClientID      uuid.UUID             `json:"clientId"`
	StartTime     time.Time             `json:"startTime"`
	EndTime       time.Time             `json:"endTime"`
	Status        string                `json:"status"`
	StatusReason  *string               `json:"statusReason,omitempty"`
	Services      []ServiceLineResponse `json:"services"`
	TotalCents    int64                 `json:"totalCents"`
	Currency      string                `json:"currency"`
	DepositCents  *int64                `json:"depositCents,omitempty"`
	DepositPaid   bool                  `json:"depositPaid"`
	DepositNeeded bool                  `json:"depositRequired"`
	IDRequired    bool                  `json:"identificationRequired"`
	ScreeningReq  bool                  `json:"screeningRequired"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

type ServiceLineResponse struct {
	ServiceID   uuid.UUID `json:"serviceId"`
	Label       string    `json:"label"`
	DurationMin int64     `json:"durationMin"`
	PriceCents  int64     `json:"priceCents"`
}

type BookingListResponse struct {
	ID           uuid.UUID `json:"id"`
	ProviderID   uuid.UUID `json:"providerId"`
	ProviderName string    `json:"providerName"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Status       string    `json:"status"`
	TotalCents   int64     `json:"totalCents"`
	Currency     string    `json:"currency"`
	CreatedAt    time.Time `json:"createdAt"`
}

// View and response fields match by name, so the mapping is structural.
func FromBookingView(rm *queries.BookingView) (*BookingResponse, error) {
	var resp BookingResponse
	if err := copier.Copy(&resp, rm); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromBookingListItem(rm *queries.BookingListItem) (*BookingListResponse, error) {
	var resp BookingListResponse
	if err := copier.Copy(&resp, rm); err != nil {
		return nil, err
	}
	return &resp, nil
}
