package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fleetlink/fleetlink/api"
	"github.com/fleetlink/fleetlink/config"
	"github.com/fleetlink/fleetlink/internal/service/booking"
	"github.com/fleetlink/fleetlink/internal/service/vehicles"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger, vehicleSvc vehicles.VehicleUseCase, bookingSvc booking.BookingUseCase) error {
	router := newRouter(logger, vehicleSvc, bookingSvc)

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(logger *zap.Logger, vehicleSvc vehicles.VehicleUseCase, bookingSvc booking.BookingUseCase) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	apiGroup := router.Group("/api")
	api.NewVehicleHandler(vehicleSvc).Register(apiGroup.Group("/vehicles"))
	api.NewBookingHandler(bookingSvc).Register(apiGroup.Group("/bookings"))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "route not found",
			"details": fmt.Sprintf("the route %s %s does not exist", c.Request.Method, c.Request.URL.Path),
		})
	})

	return router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
