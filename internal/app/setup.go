// Package app contains the application setup for the pet service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/petstore/internal/config"
	"github.com/abgdnv/petstore/internal/service"
	"github.com/abgdnv/petstore/internal/store"
	grpcImpl "github.com/abgdnv/petstore/internal/transport/grpc"
	"github.com/abgdnv/petstore/internal/transport/rest"
	"github.com/abgdnv/petstore/pkg/messaging"
	pnats "github.com/abgdnv/petstore/pkg/nats"
	"github.com/abgdnv/petstore/pkg/server"
	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

type Dependencies struct {
	PetService service.PetService
	Logger     *slog.Logger
	// MetricsHandler serves Prometheus metrics on MetricsPath. Nil disables the endpoint.
	MetricsHandler http.Handler
	MetricsPath    string
}

func SetupDependencies(publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	petService := service.NewService(store.NewInMemoryStore(), publisher)

	return &Dependencies{
		PetService: petService,
		Logger:     logger,
	}
}

// SetupPublisher connects to NATS and returns a resilient JetStream publisher.
// When NATS is disabled events are discarded. The returned func releases the connection.
func SetupPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.NATS.Enabled {
		logger.Info("NATS is disabled, domain events will not be published")
		return messaging.NoopPublisher{}, func() {}, nil
	}

	nc, err := pnats.NewClient(cfg.NATS.Url, cfg.NATS.Timeout)
	if err != nil {
		return nil, nil, err
	}
	js, err := pnats.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	if _, err := pnats.EnsureStream(ctx, js, cfg.NATS.Stream, messaging.PetsSubjects); err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to prepare event stream: %w", err)
	}
	logger.Info("Connected to NATS", slog.String("url", cfg.NATS.Url), slog.String("stream", cfg.NATS.Stream))

	publisher := messaging.NewResilientPublisher(pnats.NewNatsPublisher(js), cfg.Resilience)
	closeFn := func() {
		if err := nc.Drain(); err != nil {
			logger.Warn("Failed to drain NATS connection", slog.Any("error", err))
		}
	}
	return publisher, closeFn, nil
}

// SetupHttpHandler initializes the HTTP server and routes for the pet service.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return server.Instrument(mux, "pet-service")
}

// wireRoutes sets up the HTTP routes for the pet service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	petHandler := rest.NewHandler(deps.PetService, deps.Logger)
	petHandler.RegisterRoutes(mux)

	if deps.MetricsHandler != nil {
		mux.Handle(deps.MetricsPath, deps.MetricsHandler)
	}
}

// SetupHttpServer creates and configures an HTTP server for the pet service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return server.NewHTTPServer(cfg.HTTPServer, SetupHttpHandler(deps))
}

// SetupGrpcServer initializes the gRPC server with the PetStore and health services.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) (*grpc.Server, *health.Server) {
	healthServer := health.NewServer()
	petRegisterFunc := func(s *grpc.Server) {
		grpcImpl.RegisterPetStoreServer(s, grpcImpl.NewServer(deps.PetService, deps.Logger))
	}
	healthRegisterFunc := func(s *grpc.Server) {
		grpc_health_v1.RegisterHealthServer(s, healthServer)
	}
	return server.NewGRPCServer(deps.Logger, reflectionEnabled, petRegisterFunc, healthRegisterFunc), healthServer
}
