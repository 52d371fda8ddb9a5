package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	authdb "restaurant-site/internal/authservice/db"
	authhandler "restaurant-site/internal/authservice/handler"
	"restaurant-site/internal/authservice/middleware"
	authservice "restaurant-site/internal/authservice/service"
	orderdb "restaurant-site/internal/orderservice/db"
	orderhandler "restaurant-site/internal/orderservice/handler"
	orderservice "restaurant-site/internal/orderservice/service"
	reservationdb "restaurant-site/internal/reservationservice/db"
	reservationhandler "restaurant-site/internal/reservationservice/handler"
	reservationservice "restaurant-site/internal/reservationservice/service"
	"restaurant-site/internal/reservationservice/validation"
	"restaurant-site/pkg/config"
	"restaurant-site/pkg/db"
	"restaurant-site/pkg/httpx"
	"restaurant-site/pkg/logger"
	"restaurant-site/pkg/metrics"
	"restaurant-site/pkg/models"
	"restaurant-site/pkg/rabbitmq"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps are the handlers and collaborators served by NewHandler.
type Deps struct {
	Orders        *orderhandler.OrderHandler
	Reservations  *reservationhandler.ReservationHandler
	Auth          *authhandler.AuthHandler
	Authenticator middleware.Authenticator
	// Health reports whether the database is reachable.
	Health  func(ctx context.Context) error
	Metrics *metrics.Metrics
	Logger  *logger.Logger
	// ProtectSubmissions requires a bearer token on POST /api/orders and
	// POST /api/reservations as well.
	ProtectSubmissions bool
}

// NewHandler builds the routing table of the site API.
func NewHandler(d Deps) http.Handler {
	requireToken := middleware.RequireToken(d.Authenticator, d.Logger)
	submission := func(h http.HandlerFunc) http.Handler {
		if d.ProtectSubmissions {
			return requireToken(h)
		}
		return h
	}

	routes := []struct {
		pattern string
		handler http.Handler
	}{
		{"GET /{$}", http.HandlerFunc(hello)},
		{"GET /healthz", healthz(d.Health)},
		{"POST /api/login", http.HandlerFunc(d.Auth.Login)},
		{"POST /api/orders", submission(d.Orders.CreateOrder)},
		{"GET /api/orders", requireToken(http.HandlerFunc(d.Orders.ListOrders))},
		{"POST /api/reservations", submission(d.Reservations.CreateReservation)},
		{"GET /api/reservations", requireToken(http.HandlerFunc(d.Reservations.ListReservations))},
	}

	mux := http.NewServeMux()
	for _, route := range routes {
		mux.Handle(route.pattern, d.Metrics.Instrument(route.pattern, route.handler))
	}
	return httpx.RequestID(mux)
}

func hello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "Hello World!")
}

func healthz(ping func(ctx context.Context) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if ping != nil {
			if err := ping(ctx); err != nil {
				httpx.JSONResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httpx.JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

type publisher interface {
	Publish(ctx context.Context, n models.Notification) error
}

type Server struct {
	config        *config.Config
	logger        *logger.Logger
	metrics       *metrics.Metrics
	httpServer    *http.Server
	metricsServer *http.Server
	dbPool        *pgxpool.Pool
	rabbitMQ      *rabbitmq.RabbitMQ
}

func NewServer(cfg *config.Config, log *logger.Logger) *Server {
	return &Server{
		config:  cfg,
		logger:  log,
		metrics: metrics.New(),
	}
}

// Start connects to the database and, when enabled, the broker, then serves
// HTTP until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	pool, err := db.ConnectDB(ctx, s.config.Database, s.logger)
	if err != nil {
		return err
	}
	s.dbPool = pool

	var pub publisher
	if s.config.RabbitMQ.Enabled {
		rm, err := rabbitmq.ConnectRabbitMQ(s.config.RabbitMQ, s.logger)
		if err != nil {
			return err
		}
		s.rabbitMQ = rm
		pub = rm
	}

	orders := orderservice.NewOrderService(orderdb.NewOrderDB(pool), pub, s.metrics, s.logger)
	reservations := reservationservice.NewReservationService(reservationdb.NewReservationDB(pool), pub, s.metrics, s.logger)
	auth := authservice.NewAuthService(authdb.NewUserDB(pool), s.config.Auth.JWTSecret, s.config.Auth.TokenTTL, s.metrics, s.logger)
	hours := validation.ServiceHours{
		Opening: s.config.Reservations.OpeningHour,
		Closing: s.config.Reservations.ClosingHour,
	}

	handler := NewHandler(Deps{
		Orders:             orderhandler.NewOrderHandler(orders, s.metrics, s.logger),
		Reservations:       reservationhandler.NewReservationHandler(reservations, hours, s.metrics, s.logger),
		Auth:               authhandler.NewAuthHandler(auth),
		Authenticator:      auth,
		Health:             pool.Ping,
		Metrics:            s.metrics,
		Logger:             s.logger,
		ProtectSubmissions: s.config.Auth.ProtectSubmissions,
	})

	if s.config.Monitoring.PrometheusEnabled {
		s.metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", s.config.Monitoring.PrometheusPort),
			Handler: s.metrics.Handler(),
		}
		go func() {
			if err := s.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Action("metrics_server_failed").Error("Metrics server stopped", err)
			}
		}()
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.HTTP.Port),
		Handler:      handler,
		ReadTimeout:  s.config.HTTP.ReadTimeout,
		WriteTimeout: s.config.HTTP.WriteTimeout,
		IdleTimeout:  s.config.HTTP.IdleTimeout,
	}

	s.logger.Action("server_started").Info(fmt.Sprintf("Server listening at http://localhost:%d", s.config.HTTP.Port))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	if s.metricsServer != nil {
		err = errors.Join(err, s.metricsServer.Shutdown(ctx))
	}
	if s.rabbitMQ != nil {
		s.rabbitMQ.Close()
	}
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	return err
}
