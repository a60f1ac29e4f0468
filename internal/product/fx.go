package product

import (
	"github.com/brandkit/brandkit/internal/product/repository"
	"github.com/brandkit/brandkit/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
