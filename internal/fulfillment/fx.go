package fulfillment

import (
	"github.com/smallbiznis/licentia/internal/fulfillment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("fulfillment.service",
	fx.Provide(service.New),
)
