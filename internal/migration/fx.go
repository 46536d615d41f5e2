// Package migration creates the engine's tables on startup so the service is
// usable out of the box for local and self-hosted environments.
package migration

import (
	activationdomain "github.com/smallbiznis/licentia/internal/activation/domain"
	catalogdomain "github.com/smallbiznis/licentia/internal/catalog/domain"
	licenserepository "github.com/smallbiznis/licentia/internal/license/repository"
	orderdomain "github.com/smallbiznis/licentia/internal/order/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Models lists every gorm model the engine owns.
func Models() []any {
	return []any{
		&licenserepository.Row{},
		&activationdomain.Activation{},
		&catalogdomain.Product{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&orderdomain.OrderMeta{},
		&orderdomain.OrderSubscription{},
	}
}

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB) error {
		return conn.AutoMigrate(Models()...)
	}),
)
