package license

import (
	"github.com/smallbiznis/licentia/internal/license/keygen"
	"github.com/smallbiznis/licentia/internal/license/repository"
	"github.com/smallbiznis/licentia/internal/license/service"
	"go.uber.org/fx"
)

var Module = fx.Module("license.service",
	fx.Provide(keygen.New),
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
