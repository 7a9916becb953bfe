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
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("stackreg.clients")

// HTTPDirectoryClient implements DirectoryClient against the directory
// service's REST API.
type HTTPDirectoryClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewDirectoryClient builds a directory client from the environment.
//
// # Environment Variables
//
//   - DIRECTORY_SERVICE_URL: Base URL of the directory service (required)
func NewDirectoryClient() (*HTTPDirectoryClient, error) {
	baseURL := os.Getenv("DIRECTORY_SERVICE_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("DIRECTORY_SERVICE_URL environment variable not set")
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	slog.Info("Initializing directory client", "base_url", baseURL)
	return &HTTPDirectoryClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
	}, nil
}

// NewDirectoryClientWithURL builds a directory client for a known base URL.
func NewDirectoryClientWithURL(baseURL string) *HTTPDirectoryClient {
	return &HTTPDirectoryClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// LookupUser implements the DirectoryClient interface.
func (c *HTTPDirectoryClient) LookupUser(ctx context.Context, uuid string) (*User, error) {
	ctx, span := tracer.Start(ctx, "DirectoryClient.LookupUser")
	defer span.End()
	span.SetAttributes(attribute.String("directory.user_uuid", uuid))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/users/"+uuid, nil)
	if err != nil {
		return nil, fmt.Errorf("build directory request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("directory lookup: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrLookupNotFound
	case resp.StatusCode != http.StatusOK:
		span.SetStatus(codes.Error, resp.Status)
		return nil, fmt.Errorf("directory lookup: unexpected status %s", resp.Status)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode directory response: %w", err)
	}
	return &user, nil
}

var _ DirectoryClient = (*HTTPDirectoryClient)(nil)
