//go:build unit || e2e

package builder

import (
	"time"

	"eropoppin-booking/internal/domain/availability"
	"eropoppin-booking/internal/domain/provider"
	"eropoppin-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type ProviderBuilder struct {
	ID              uuid.UUID
	DisplayName     string
	HourlyRateCents int64
	Currency        string
	DepositRequired bool
	DepositCents    int64
	IDRequired      bool
	ScreeningReq    bool
	Timezone        string
	Weekly          []availability.WeeklyWindow
}

func NewProviderBuilder() *ProviderBuilder {
	return &ProviderBuilder{
		ID:              uuid.New(),
		DisplayName:     "Test Provider",
		HourlyRateCents: 10000,
		Currency:        "EUR",
		Timezone:        "UTC",
		// Open every day, all day, so range checks don't interfere with
		// tests that only care about conflicts.
		Weekly: allWeekOpen(),
	}
}

func allWeekOpen() []availability.WeeklyWindow {
	windows := make([]availability.WeeklyWindow, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		windows[d] = availability.WeeklyWindow{Weekday: d, StartMinute: 0, EndMinute: 1440}
	}
	return windows
}

func (p *ProviderBuilder) With(mutate func(*ProviderBuilder)) *ProviderBuilder {
	mutate(p)
	return p
}

func (p *ProviderBuilder) BuildDomain() (*provider.Provider, error) {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, err
	}
	return provider.NewProvider(
		p.ID, p.DisplayName, p.HourlyRateCents, p.Currency,
		p.DepositRequired, p.DepositCents, p.IDRequired, p.ScreeningReq, loc,
	)
}

func (p *ProviderBuilder) BuildSnapshot() *commands.ProviderSnapshot {
	return &commands.ProviderSnapshot{
		ID:              p.ID,
		DisplayName:     p.DisplayName,
		HourlyRateCents: p.HourlyRateCents,
		Currency:        p.Currency,
		DepositRequired: p.DepositRequired,
		DepositCents:    p.DepositCents,
		IDRequired:      p.IDRequired,
		ScreeningReq:    p.ScreeningReq,
		Timezone:        p.Timezone,
	}
}

func (p *ProviderBuilder) BuildSchedule() (*availability.Schedule, error) {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, err
	}
	return availability.NewSchedule(p.ID, loc, p.Weekly, nil)
}
