// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command stackreg starts the stackreg registry HTTP server.
//
// This is the main entry point for the containerized registry service.
// It reads configuration from environment variables and starts the server.
//
// # Environment Variables
//
//   - REGISTRY_PORT: HTTP server port (default: 12310)
//   - STORAGE_PATH: Badger database directory (default: ./data/stackreg)
//   - DIRECTORY_SERVICE_URL: Identity/directory service base URL (required)
//   - IMAGE_REGISTRY_URL: Image registry base URL (required)
//   - PROVISIONER_URL: Workload provisioner base URL (required)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OpenTelemetry collector (default: stackreg-otel-collector:4317)
//
// # Usage
//
//	# Build
//	go build -o stackreg ./cmd/stackreg
//
//	# Run
//	./stackreg
package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/AleutianAI/stackreg/services/registry"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Build configuration from environment variables
	cfg := registry.Config{
		Port:             getEnvInt("REGISTRY_PORT", 12310),
		StoragePath:      getEnvString("STORAGE_PATH", "./data/stackreg"),
		DirectoryURL:     os.Getenv("DIRECTORY_SERVICE_URL"),
		ImageRegistryURL: os.Getenv("IMAGE_REGISTRY_URL"),
		ProvisionerURL:   os.Getenv("PROVISIONER_URL"),
		OTelEndpoint:     getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", "stackreg-otel-collector:4317"),
	}

	slog.Info("Starting registry",
		"port", cfg.Port,
		"storage_path", cfg.StoragePath,
		"directory_url", cfg.DirectoryURL,
		"image_registry_url", cfg.ImageRegistryURL,
		"provisioner_url", cfg.ProvisionerURL,
	)

	svc, err := registry.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create registry: %v", err)
	}

	// Run the server (blocks until shutdown)
	if err := svc.Run(); err != nil {
		log.Fatalf("Registry error: %v", err)
	}
}

// getEnvString returns the environment variable value or a default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
