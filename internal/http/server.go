// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"ridepool/internal/http/handlers"
	"ridepool/internal/http/middleware"
	"ridepool/internal/modules/booking"
	"ridepool/internal/modules/fleet"
	"ridepool/internal/modules/location"
	"ridepool/internal/modules/matching"
)

type ServerDeps struct {
	Booking  *booking.Service
	Matching *matching.Service
	Fleet    *fleet.Service
	Location *location.Service
	Log      *zap.Logger

	AllowOrigins []string
	// TriggerLimiter throttles manual matching runs; nil means unlimited.
	TriggerLimiter *rate.Limiter
}

type Server struct {
	booking  *booking.Service
	matching *matching.Service
	fleet    *fleet.Service
	location *location.Service
	log      *zap.Logger

	allowOrigins   []string
	triggerLimiter *rate.Limiter
}

func NewServer(deps ServerDeps) *Server {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		booking:  deps.Booking,
		matching: deps.Matching,
		fleet:    deps.Fleet,
		location: deps.Location,
		log:      log,

		allowOrigins:   deps.AllowOrigins,
		triggerLimiter: deps.TriggerLimiter,
	}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(s.log), middleware.Logging(s.log), middleware.Metrics())
	if len(s.allowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  s.allowOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	bookingHandler := handlers.NewBookingHandler(s.booking)
	api.POST("/bookings", bookingHandler.Create)
	api.GET("/bookings/:id", bookingHandler.Get)

	matchingHandler := handlers.NewMatchingHandler(s.matching)
	api.POST("/trigger-matching", middleware.RateLimit(s.triggerLimiter, s.log), matchingHandler.Trigger)

	vehicleHandler := handlers.NewVehicleHandler(s.fleet)
	locationHandler := handlers.NewLocationHandler(s.location)
	api.POST("/vehicles", vehicleHandler.Register)
	api.GET("/vehicles/nearby", locationHandler.Nearby)
	api.GET("/vehicles/:id", vehicleHandler.Get)
	api.POST("/vehicles/:id/release", vehicleHandler.Release)
	api.PUT("/vehicles/:id/location", locationHandler.Update)

	return r
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}
