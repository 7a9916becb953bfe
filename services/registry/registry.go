// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package registry provides the core registry service for stackreg.
//
// This package contains the main Service type that coordinates all
// components: the badger-backed storage adapter, the referential validator
// and its collaborator clients, the three entity repositories, the deploy
// pipeline, HTTP routing, and observability infrastructure.
//
// # Usage
//
//	cfg := registry.Config{Port: 12310, StoragePath: "/var/lib/stackreg"}
//	svc, err := registry.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(svc.Run())
//
// Collaborator clients can be injected through Config for testing; when
// left nil, they are built from the configured URLs.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AleutianAI/stackreg/services/registry/clients"
	"github.com/AleutianAI/stackreg/services/registry/deploy"
	"github.com/AleutianAI/stackreg/services/registry/observability"
	"github.com/AleutianAI/stackreg/services/registry/refcheck"
	"github.com/AleutianAI/stackreg/services/registry/repository"
	"github.com/AleutianAI/stackreg/services/registry/routes"
	"github.com/AleutianAI/stackreg/services/registry/storage"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Service defines the contract for the registry service.
//
// # Description
//
// Service abstracts the registry lifecycle, enabling testing and
// alternative implementations. Only essential lifecycle methods are
// exposed.
//
// # Assumptions
//
//   - Service is fully initialized before Run() is called
//   - Run() is called at most once per Service instance
type Service interface {
	// Run starts the HTTP server and blocks until shutdown or error.
	Run() error

	// Router returns the underlying Gin engine for testing.
	Router() *gin.Engine

	// Close releases the storage engine and tracer. Called automatically
	// when Run returns; call it directly when the router is driven through
	// Router() in tests.
	Close()
}

// =============================================================================
// Configuration
// =============================================================================

// Config holds registry service configuration options.
//
// # Required Fields
//
// StoragePath (unless StorageInMemory), DirectoryURL, ImageRegistryURL and
// ProvisionerURL, unless the corresponding client is injected directly.
//
// # Examples
//
//	// Production
//	cfg := Config{
//	    Port:             12310,
//	    StoragePath:      "/var/lib/stackreg",
//	    DirectoryURL:     "http://directory:8080",
//	    ImageRegistryURL: "http://images:8080",
//	    ProvisionerURL:   "http://provisioner:8080",
//	}
//
//	// Tests
//	cfg := Config{StorageInMemory: true, Directory: fakeDir, ...}
type Config struct {
	// Port is the HTTP server port. Default: 12310
	Port int

	// StoragePath is the directory for the badger database.
	// Required unless StorageInMemory is true.
	StoragePath string

	// StorageInMemory opens the storage engine in memory. For testing.
	StorageInMemory bool

	// DirectoryURL is the base URL of the identity/directory service.
	DirectoryURL string

	// ImageRegistryURL is the base URL of the image registry.
	ImageRegistryURL string

	// ProvisionerURL is the base URL of the workload provisioner.
	ProvisionerURL string

	// OTelEndpoint is the OpenTelemetry collector endpoint.
	// Default: "stackreg-otel-collector:4317". Empty after defaults are
	// applied disables tracing export.
	OTelEndpoint string

	// EnableMetrics enables the Prometheus metrics endpoint. Default: true
	EnableMetrics bool

	// GinMode sets the Gin framework mode ("debug", "release", "test").
	GinMode string

	// Directory, Images and Provisioner override the URL-built clients.
	// Used by tests to inject doubles.
	Directory   clients.DirectoryClient
	Images      clients.ImageClient
	Provisioner clients.ProvisionerClient

	// Policy overrides the fixed default placement policy.
	Policy deploy.PlacementPolicy
}

// =============================================================================
// Implementation
// =============================================================================

// service implements Service for production use.
//
// # Thread Safety
//
// Thread-safe after construction. All fields are read-only after New()
// returns.
type service struct {
	config        Config
	router        *gin.Engine
	store         storage.Store
	repos         routes.Repositories
	deployer      *deploy.Deployer
	tracerCleanup func(context.Context)
}

// =============================================================================
// Constructor
// =============================================================================

// New creates a new registry Service with the given configuration.
//
// # Description
//
// New initializes all registry components:
//  1. Applies default configuration for missing values
//  2. Initializes OpenTelemetry tracing
//  3. Initializes Prometheus metrics
//  4. Opens the storage engine and provisions the entity buckets
//     (concurrent fan-out over the three buckets; any failure is fatal)
//  5. Builds the collaborator clients (or takes the injected ones)
//  6. Wires validator, repositories and the deploy pipeline
//  7. Sets up HTTP routes
//
// # Outputs
//
//   - Service: Ready-to-run registry service
//   - error: Non-nil if initialization fails
func New(cfg Config) (Service, error) {
	s := &service{
		config: applyConfigDefaults(cfg),
	}

	cleanup, err := s.initTracer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}
	s.tracerCleanup = cleanup

	if s.config.EnableMetrics && observability.DefaultMetrics == nil {
		observability.InitMetrics()
		slog.Info("Initialized Prometheus metrics for registry operations")
	}

	if err := s.initStorage(); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := s.initComponents(); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}

	s.initRouter()

	return s, nil
}

// =============================================================================
// Service Interface Methods
// =============================================================================

// Run starts the HTTP server and blocks until shutdown or error.
func (s *service) Run() error {
	defer s.Close()

	addr := fmt.Sprintf(":%d", s.config.Port)
	slog.Info("Starting registry server", "port", s.config.Port)

	return s.router.Run(addr)
}

// Router returns the underlying Gin engine for testing.
func (s *service) Router() *gin.Engine {
	return s.router
}

// Close releases all resources held by the service.
func (s *service) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			slog.Warn("Storage close error", "error", err)
		}
		s.store = nil
	}
	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
		s.tracerCleanup = nil
	}
}

// =============================================================================
// Private Initialization Methods
// =============================================================================

// applyConfigDefaults fills in missing configuration values.
func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 12310
	}
	if cfg.OTelEndpoint == "" {
		cfg.OTelEndpoint = "stackreg-otel-collector:4317"
	}
	cfg.EnableMetrics = true
	return cfg
}

// initTracer initializes OpenTelemetry distributed tracing.
//
// # Limitations
//
//   - Uses insecure gRPC connection (appropriate for internal networks)
func (s *service) initTracer() (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(s.config.OTelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("registry-service")))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}

	return cleanup, nil
}

// initStorage opens the storage engine and provisions the entity buckets.
// Bucket provisioning failure is fatal to startup by design.
func (s *service) initStorage() error {
	var cfg storage.Config
	if s.config.StorageInMemory {
		cfg = storage.InMemoryConfig()
	} else {
		cfg = storage.DefaultConfig(s.config.StoragePath)
	}

	store, err := storage.Open(cfg)
	if err != nil {
		return err
	}
	s.store = store

	if err := storage.EnsureBuckets(context.Background(), store); err != nil {
		return err
	}
	slog.Info("Storage initialized",
		"path", s.config.StoragePath, "in_memory", s.config.StorageInMemory)
	return nil
}

// initComponents builds clients, validator, repositories and the deploy
// pipeline.
func (s *service) initComponents() error {
	directory := s.config.Directory
	if directory == nil {
		if s.config.DirectoryURL == "" {
			return fmt.Errorf("directory service URL not configured")
		}
		directory = clients.NewDirectoryClientWithURL(s.config.DirectoryURL)
	}

	images := s.config.Images
	if images == nil {
		if s.config.ImageRegistryURL == "" {
			return fmt.Errorf("image registry URL not configured")
		}
		images = clients.NewImageClientWithURL(s.config.ImageRegistryURL)
	}

	provisioner := s.config.Provisioner
	if provisioner == nil {
		if s.config.ProvisionerURL == "" {
			return fmt.Errorf("provisioner URL not configured")
		}
		provisioner = clients.NewProvisionerClientWithURL(s.config.ProvisionerURL)
	}

	check := refcheck.New(directory, images, s.store)
	s.repos = routes.Repositories{
		Applications: repository.NewApplications(s.store, check),
		Services:     repository.NewServices(s.store, check),
		Instances:    repository.NewInstances(s.store, check),
	}
	s.deployer = deploy.New(s.repos.Applications, s.repos.Services, provisioner, s.config.Policy)
	return nil
}

// initRouter sets up the Gin HTTP router with all routes.
func (s *service) initRouter() {
	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}
	s.router = gin.Default()
	s.router.Use(otelgin.Middleware("registry-service"))

	routes.SetupRoutes(s.router, s.repos, s.deployer)
}

// =============================================================================
// Compile-time Interface Compliance
// =============================================================================

var _ Service = (*service)(nil)
