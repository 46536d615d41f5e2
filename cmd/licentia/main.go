package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/licentia/internal/activation"
	"github.com/smallbiznis/licentia/internal/catalog"
	"github.com/smallbiznis/licentia/internal/clock"
	"github.com/smallbiznis/licentia/internal/config"
	"github.com/smallbiznis/licentia/internal/fulfillment"
	"github.com/smallbiznis/licentia/internal/license"
	"github.com/smallbiznis/licentia/internal/logger"
	"github.com/smallbiznis/licentia/internal/migration"
	"github.com/smallbiznis/licentia/internal/observability/metrics"
	"github.com/smallbiznis/licentia/internal/observability/tracing"
	"github.com/smallbiznis/licentia/internal/order"
	"github.com/smallbiznis/licentia/internal/server"
	"github.com/smallbiznis/licentia/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		tracing.Module,
		db.Module,
		clock.Module,
		metrics.Module,
		migration.Module,

		// Functional domains
		license.Module,
		catalog.Module,
		order.Module,
		activation.Module,
		fulfillment.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
