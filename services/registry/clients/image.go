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

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// HTTPImageClient implements ImageClient against the image registry's
// REST API.
type HTTPImageClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewImageClient builds an image registry client from the environment.
//
// # Environment Variables
//
//   - IMAGE_REGISTRY_URL: Base URL of the image registry (required)
func NewImageClient() (*HTTPImageClient, error) {
	baseURL := os.Getenv("IMAGE_REGISTRY_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("IMAGE_REGISTRY_URL environment variable not set")
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	slog.Info("Initializing image registry client", "base_url", baseURL)
	return &HTTPImageClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
	}, nil
}

// NewImageClientWithURL builds an image registry client for a known base URL.
func NewImageClientWithURL(baseURL string) *HTTPImageClient {
	return &HTTPImageClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// LookupImage implements the ImageClient interface.
func (c *HTTPImageClient) LookupImage(ctx context.Context, uuid string) (*Image, error) {
	ctx, span := tracer.Start(ctx, "ImageClient.LookupImage")
	defer span.End()
	span.SetAttributes(attribute.String("image.uuid", uuid))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/images/"+uuid, nil)
	if err != nil {
		return nil, fmt.Errorf("build image registry request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("image lookup: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrLookupNotFound
	case resp.StatusCode != http.StatusOK:
		span.SetStatus(codes.Error, resp.Status)
		return nil, fmt.Errorf("image lookup: unexpected status %s", resp.Status)
	}

	var image Image
	if err := json.NewDecoder(resp.Body).Decode(&image); err != nil {
		return nil, fmt.Errorf("decode image registry response: %w", err)
	}
	return &image, nil
}

var _ ImageClient = (*HTTPImageClient)(nil)
