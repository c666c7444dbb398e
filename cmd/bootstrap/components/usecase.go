package components

import (
	"eropoppin-booking/internal/domain/booking"
	"eropoppin-booking/internal/pkg/clock"
	"eropoppin-booking/internal/pkg/lock"
	"eropoppin-booking/internal/usecase/commands"
	"eropoppin-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		booking.NewStandardPriceCalculator,
		fx.As(new(booking.PriceCalculator)),
	),
	booking.NewFactory,
	fx.Annotate(
		lock.NewKeyed,
		fx.As(new(commands.ProviderLocks)),
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		queries.NewAvailabilityQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingCommands,
		commands.NewAvailabilityCommands,
	),
)
