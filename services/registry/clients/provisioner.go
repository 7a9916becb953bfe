// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/AleutianAI/stackreg/services/registry/datatypes"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// HTTPProvisionerClient implements ProvisionerClient against the workload
// provisioner's REST API. Provisioning can be slow (VM boot), hence the
// long client timeout; retry policy belongs to the provisioner deployment,
// not here.
type HTTPProvisionerClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewProvisionerClient builds a provisioner client from the environment.
//
// # Environment Variables
//
//   - PROVISIONER_URL: Base URL of the workload provisioner (required)
func NewProvisionerClient() (*HTTPProvisionerClient, error) {
	baseURL := os.Getenv("PROVISIONER_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("PROVISIONER_URL environment variable not set")
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	slog.Info("Initializing provisioner client", "base_url", baseURL)
	return &HTTPProvisionerClient{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		baseURL:    baseURL,
	}, nil
}

// NewProvisionerClientWithURL builds a provisioner client for a known base
// URL.
func NewProvisionerClientWithURL(baseURL string) *HTTPProvisionerClient {
	return &HTTPProvisionerClient{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// CreateWorkload implements the ProvisionerClient interface.
func (c *HTTPProvisionerClient) CreateWorkload(ctx context.Context,
	params datatypes.Params) (*WorkloadHandle, error) {

	ctx, span := tracer.Start(ctx, "ProvisionerClient.CreateWorkload")
	defer span.End()
	span.SetAttributes(attribute.String("workload.uuid", params["uuid"]))

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal workload params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/workloads", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("build provisioner request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("create workload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		span.SetStatus(codes.Error, resp.Status)
		return nil, fmt.Errorf("create workload: unexpected status %s", resp.Status)
	}

	var handle WorkloadHandle
	if err := json.NewDecoder(resp.Body).Decode(&handle); err != nil {
		return nil, fmt.Errorf("decode provisioner response: %w", err)
	}
	slog.Info("Workload provisioned", "handle_id", handle.ID, "workload_uuid", params["uuid"])
	return &handle, nil
}

var _ ProvisionerClient = (*HTTPProvisionerClient)(nil)
