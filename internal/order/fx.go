package order

import (
	"github.com/smallbiznis/licentia/internal/order/repository"
	"github.com/smallbiznis/licentia/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(service.AsOrderProvider),
	fx.Provide(service.AsMarkerStore),
)
