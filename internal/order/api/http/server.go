package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"orders-bot/internal/order/api/http/handle"
	"orders-bot/internal/order/app/core"
	"orders-bot/internal/order/app/services"
	"orders-bot/internal/xpkg/config"
	"orders-bot/internal/xpkg/logger"

	database "orders-bot/internal/order/adapter/db"
	xdb "orders-bot/internal/xpkg/db"
	"orders-bot/pkg/rabbitmq"
)

var ErrServerClosed = errors.New("server closed")

type Server struct {
	mux         *http.ServeMux
	cfg         *config.Config
	srv         *http.Server
	orderParams *core.OrderParams
	mylog       logger.Logger
	db          core.IDB
	mb          core.IBroker
	ctx         context.Context
	appCtx      context.Context
	mu          sync.Mutex
}

func NewServer(ctx, appCtx context.Context, cfg *config.Config, orderParams *core.OrderParams, mylog logger.Logger) *Server {
	return &Server{
		ctx:         ctx,
		appCtx:      appCtx,
		cfg:         cfg,
		orderParams: orderParams,
		mylog:       mylog,
		mux:         http.NewServeMux(),
	}
}

// Run initializes connections and routes and starts listening. It returns
// when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	if err := s.initializeDatabase(); err != nil {
		mylog.Action("db_connection_failed").Error("Failed to connect to database", err)
		return err
	}
	mylog.Action("db_connected").Info("Successful database connection")

	if err := s.initializeBroker(); err != nil {
		mylog.Action("mb_connection_failed").Error("Failed to connect to message broker", err)
		return err
	}
	mylog.Action("mb_connected").Info("Successful message broker connection")

	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.orderParams.Port),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog.WithGroup("details").With("port", s.orderParams.Port).Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Action("graceful_shutdown_started").Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, core.WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Action("graceful_shutdown_failed").Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Action("db_close_failed").Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Action("db_closed").Info("Database closed")
	}

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Action("mb_close_failed").Error("Failed to close message broker", err)
			return fmt.Errorf("mb close: %w", err)
		}
		s.mylog.Action("mb_closed").Info("Message broker closed")
	}

	s.mylog.Action("graceful_shutdown_completed").Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) initializeDatabase() error {
	db, err := xdb.Start(s.appCtx, s.cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func (s *Server) initializeBroker() error {
	mb, err := rabbitmq.New(s.appCtx, *s.cfg.RMQ, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.mb = mb
	return nil
}

// Configure wires repositories, services and routes.
func (s *Server) Configure() {
	orderRepo := database.NewOrderRepo(s.db)
	orderService := services.NewOrderService(orderRepo, s.mb, s.mylog)
	orderHandler := handle.NewOrderHandler(orderService, s.mylog)

	s.mux.Handle("POST /orders", orderHandler.Create())
	s.mux.Handle("GET /orders", orderHandler.List())
	s.mux.Handle("GET /orders/stats", orderHandler.Stats())
	s.mux.Handle("GET /orders/{id}", orderHandler.GetByID())
	s.mux.Handle("PATCH /orders/{id}/status", orderHandler.UpdateStatus())
	s.mux.Handle("DELETE /orders/{id}", orderHandler.Delete())
	s.mux.Handle("GET /health", orderHandler.Health())
}
