package auth

import (
	"time"

	"github.com/brandkit/brandkit/internal/auth/repository"
	"github.com/brandkit/brandkit/internal/auth/service"
	"github.com/brandkit/brandkit/internal/auth/token"
	"github.com/brandkit/brandkit/internal/clock"
	"github.com/brandkit/brandkit/internal/config"
	"go.uber.org/fx"
)

func provideIssuer(cfg config.Config, clk clock.Clock) *token.Issuer {
	return token.NewIssuer(cfg.AuthJWTSecret, time.Duration(cfg.AuthTokenTTLMin)*time.Minute, clk)
}

var Module = fx.Module("auth.service",
	fx.Provide(provideIssuer),
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
