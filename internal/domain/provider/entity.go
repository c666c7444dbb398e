package provider

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidRate     = errors.New("hourly rate cannot be negative")
	ErrInvalidCurrency = errors.New("currency must be a 3-letter ISO code")
	ErrInvalidDeposit  = errors.New("deposit amount must be positive when required")
)

// Provider is the party offering bookable services. Booking-relevant profile
// fields only; identity, media and verification live elsewhere.
type Provider struct {
	id              uuid.UUID
	displayName     string
	hourlyRateCents int64
	currency        string
	depositRequired bool
	depositCents    int64
	idRequired      bool
	screeningReq    bool
	location        *time.Location
}

func NewProvider(
	id uuid.UUID,
	displayName string,
	hourlyRateCents int64,
	currency string,
	depositRequired bool,
	depositCents int64,
	idRequired bool,
	screeningRequired bool,
	location *time.Location,
) (*Provider, error) {
	if hourlyRateCents < 0 {
		return nil, ErrInvalidRate
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return nil, ErrInvalidCurrency
	}
	if depositRequired && depositCents <= 0 {
		return nil, ErrInvalidDeposit
	}
	if location == nil {
		location = time.UTC
	}
	return &Provider{
		id:              id,
		displayName:     displayName,
		hourlyRateCents: hourlyRateCents,
		currency:        currency,
		depositRequired: depositRequired,
		depositCents:    depositCents,
		idRequired:      idRequired,
		screeningReq:    screeningRequired,
		location:        location,
	}, nil
}

func (p *Provider) ID() uuid.UUID              { return p.id }
func (p *Provider) DisplayName() string        { return p.displayName }
func (p *Provider) HourlyRateCents() int64     { return p.hourlyRateCents }
func (p *Provider) Currency() string           { return p.currency }
func (p *Provider) DepositRequired() bool      { return p.depositRequired }
func (p *Provider) DepositCents() int64        { return p.depositCents }
func (p *Provider) IdentificationRequired() bool { return p.idRequired }
func (p *Provider) ScreeningRequired() bool    { return p.screeningReq }
func (p *Provider) Location() *time.Location   { return p.location }
