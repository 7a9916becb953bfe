// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers provides the gin handlers for the registry's exposed
// surface: CRUD per entity kind, deploy, and health.
//
// # Error mapping
//
//   - validation errors    → 400 (client-caused, never retried)
//   - referential errors   → 400, naming the dangling reference
//   - absent records       → 404
//   - deploy resolve stage → 404 (chain lookup on a missing identifier)
//   - provision stage      → 502 (collaborator failure)
//   - everything else      → 500
package handlers

import (
	"errors"
	"net/http"

	"github.com/AleutianAI/stackreg/services/registry/datatypes"
	"github.com/AleutianAI/stackreg/services/registry/deploy"
	"github.com/gin-gonic/gin"
)

// HealthCheck reports service liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// writeError maps a registry error onto an HTTP response.
func writeError(c *gin.Context, err error) {
	var vErr *datatypes.ValidationError
	var rErr *datatypes.ReferentialError
	var sErr *deploy.StageError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
	case errors.As(err, &rErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     rErr.Error(),
			"reference": rErr.Reference,
			"uuid":      rErr.UUID,
		})
	case errors.As(err, &sErr):
		status := http.StatusNotFound
		if sErr.Stage == deploy.StageProvision {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": sErr.Error(), "stage": string(sErr.Stage)})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
