package bootstrap

import (
	"eropoppin-booking/internal/pkg/config"
	"eropoppin-booking/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTManager,
	),
)

func NewJWTManager(cfg config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret)
}
