package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	activationdomain "github.com/smallbiznis/licentia/internal/activation/domain"
	"github.com/smallbiznis/licentia/internal/config"
	fulfillmentdomain "github.com/smallbiznis/licentia/internal/fulfillment/domain"
	licensedomain "github.com/smallbiznis/licentia/internal/license/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Engine      *gin.Engine
	Log         *zap.Logger
	Config      config.Config
	Fulfillment fulfillmentdomain.Service
	Licenses    licensedomain.Service
	Activations activationdomain.Service
}

type Server struct {
	engine      *gin.Engine
	log         *zap.Logger
	cfg         config.Config
	fulfillment fulfillmentdomain.Service
	licenses    licensedomain.Service
	activations activationdomain.Service
}

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

func NewServer(p Params) *Server {
	s := &Server{
		engine:      p.Engine,
		log:         p.Log.Named("http.server"),
		cfg:         p.Config,
		fulfillment: p.Fulfillment,
		licenses:    p.Licenses,
		activations: p.Activations,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/v1")

	// Order lifecycle webhooks: the event dispatch boundary into the engine.
	v1.POST("/orders/:id/complete", s.CompleteOrder)
	v1.DELETE("/orders/:id", s.DeleteOrder)
	v1.GET("/orders/:id/licenses", s.ListOrderLicenses)

	v1.GET("/licenses/:key", s.GetLicense)
	v1.GET("/licenses/:key/activations", s.ListActivations)
	v1.POST("/licenses/:key/activations", s.ActivateLicense)
	v1.DELETE("/licenses/:key/activations/:instance", s.DeactivateLicense)
}

func run(lc fx.Lifecycle, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", s.cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}

// Module wires the HTTP surface.
var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(run),
)
