package components

import (
	"eropoppin-booking/internal/infra/payment"
	"eropoppin-booking/internal/infra/readstore"
	"eropoppin-booking/internal/infra/uow"
	"eropoppin-booking/internal/infra/writerepo"
	"eropoppin-booking/internal/pkg/config"
	"eropoppin-booking/internal/usecase/commands"
	"eropoppin-booking/internal/usecase/queries"
	"eropoppin-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	readstoreModule,
	repositoryModule,
	gatewayModule,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		fx.Annotate(
			readstore.NewAvailabilityReadStore,
			fx.As(new(queries.AvailabilityReadStore)),
		),
		fx.Annotate(
			readstore.NewProviderReadStore,
			fx.As(new(commands.ProviderReads)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		uow.NewPostgresUoW,
		fx.Annotate(
			writerepo.NewIdempotencyRepository,
			fx.As(new(shared.IdempotencyRepository)),
		),
	),
)

var gatewayModule = fx.Module("persistence/gateway",
	fx.Provide(
		fx.Annotate(
			NewStripeGateway,
			fx.As(new(commands.PaymentGateway)),
		),
	),
)

func NewStripeGateway(cfg config.Config) *payment.StripeGateway {
	return payment.NewStripeGateway(cfg.Payment.StripeAPIKey)
}
