package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"desguace/internal/api/handlers"
	"desguace/internal/api/middleware"
	"desguace/internal/config"
	wcconnector "desguace/internal/connectors/woocommerce"
	"desguace/internal/events"
	"desguace/internal/logger"
	"desguace/internal/services/settings"
	"desguace/internal/services/woocommerce"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *gorm.DB, publisher events.Publisher) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Services
	settingsStore := settings.NewStore(db)
	wooService := woocommerce.NewService(settingsStore, logger,
		woocommerce.WithHTTPTimeout(cfg.WooCommerceTimeout),
		woocommerce.WithAdapterOptions(woocommerce.WithInitPolicy(woocommerce.InitPolicy{
			Attempts: cfg.WooCommerceInitAttempts,
			Interval: cfg.WooCommerceInitInterval,
		})),
	)

	// Initialize handlers
	clientHandler := handlers.NewClientHandler(db, logger)
	yardHandler := handlers.NewYardHandler(db, logger)
	vehicleHandler := handlers.NewVehicleHandler(db, logger)
	partHandler := handlers.NewPartHandler(db, logger, publisher, wooService)
	settingsHandler := handlers.NewSettingsHandler(settingsStore, logger)
	wooHandler := handlers.NewWooCommerceHandler(wooService, logger)
	shopSyncHandler := handlers.NewShopSyncHandler(wcconnector.New(db, wooService, logger.Named("connector")), settingsStore, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Routes
	v1 := router.Group("/api/v1")
	{
		// Clients
		clients := v1.Group("/clients")
		{
			clients.GET("", clientHandler.List)
			clients.GET("/:id", clientHandler.Get)
			clients.POST("", clientHandler.Create)
			clients.PUT("/:id", clientHandler.Update)
			clients.DELETE("/:id", clientHandler.Delete)
		}

		// Yards
		yards := v1.Group("/yards")
		{
			yards.GET("", yardHandler.List)
			yards.GET("/:id", yardHandler.Get)
			yards.POST("", yardHandler.Create)
			yards.PUT("/:id", yardHandler.Update)
			yards.DELETE("/:id", yardHandler.Delete)
		}

		// Vehicles
		vehicles := v1.Group("/vehicles")
		{
			vehicles.GET("", vehicleHandler.List)
			vehicles.GET("/:id", vehicleHandler.Get)
			vehicles.GET("/:id/parts", vehicleHandler.Parts)
			vehicles.POST("", vehicleHandler.Create)
			vehicles.PUT("/:id", vehicleHandler.Update)
			vehicles.DELETE("/:id", vehicleHandler.Delete)
		}

		// Parts
		parts := v1.Group("/parts")
		{
			parts.GET("", partHandler.List)
			parts.GET("/:id", partHandler.Get)
			parts.POST("", partHandler.Create)
			parts.PUT("/:id", partHandler.Update)
			parts.DELETE("/:id", partHandler.Delete)
			parts.POST("/:id/sync", partHandler.Sync)
			parts.DELETE("/:id/sync", partHandler.Unsync)
		}

		// Settings
		v1.GET("/settings", settingsHandler.List)
		v1.PUT("/settings/:key", settingsHandler.Update)

		// WooCommerce
		woo := v1.Group("/woocommerce")
		{
			woo.GET("/config", wooHandler.GetConfig)
			woo.PUT("/config", wooHandler.UpdateConfig)
			woo.POST("/test", wooHandler.Test)
			woo.GET("/products", wooHandler.Products)
			woo.POST("/reconcile", shopSyncHandler.Reconcile)
			woo.POST("/webhook", shopSyncHandler.Webhook)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second, // room for a full WooCommerce round trip
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router exposes the routes for in-process tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
