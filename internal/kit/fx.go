package kit

import (
	"github.com/brandkit/brandkit/internal/kit/repository"
	"github.com/brandkit/brandkit/internal/kit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("kit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
