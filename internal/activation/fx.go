package activation

import (
	"github.com/smallbiznis/licentia/internal/activation/repository"
	"github.com/smallbiznis/licentia/internal/activation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("activation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
