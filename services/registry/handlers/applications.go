// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/AleutianAI/stackreg/services/registry/datatypes"
	"github.com/AleutianAI/stackreg/services/registry/observability"
	"github.com/AleutianAI/stackreg/services/registry/repository"
	"github.com/gin-gonic/gin"
)

func CreateApplication(repo *repository.Applications) gin.HandlerFunc {
	return func(c *gin.Context) {
		var app datatypes.Application
		if err := c.ShouldBindJSON(&app); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		created, err := repo.Create(c.Request.Context(), &app)
		observability.DefaultMetrics.RecordEntityOp("application", "create", err == nil)
		if err != nil {
			slog.Error("Application create failed", "name", app.Name, "error", err)
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func ListApplications(repo *repository.Applications) gin.HandlerFunc {
	return func(c *gin.Context) {
		apps, err := repo.List(c.Request.Context())
		observability.DefaultMetrics.RecordEntityOp("application", "list", err == nil)
		if err != nil {
			slog.Error("Application list failed", "error", err)
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, apps)
	}
}

func GetApplication(repo *repository.Applications) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("uuid")
		app, found, err := repo.Get(c.Request.Context(), id)
		observability.DefaultMetrics.RecordEntityOp("application", "get", err == nil)
		if err != nil {
			slog.Error("Application get failed", "uuid", id, "error", err)
			writeError(c, err)
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "application not found", "uuid": id})
			return
		}
		c.JSON(http.StatusOK, app)
	}
}

// DeleteApplication removes the record only; dependent Services keep their
// dangling reference (documented non-goal).
func DeleteApplication(repo *repository.Applications) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("uuid")
		err := repo.Delete(c.Request.Context(), id)
		observability.DefaultMetrics.RecordEntityOp("application", "delete", err == nil)
		if err != nil {
			slog.Error("Application delete failed", "uuid", id, "error", err)
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted", "uuid": id})
	}
}

// ListApplicationServices returns the Services owned by an Application.
func ListApplicationServices(repo *repository.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("uuid")
		services, err := repo.ListByApplication(c.Request.Context(), id)
		if err != nil {
			slog.Error("Service list by application failed", "application_uuid", id, "error", err)
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, services)
	}
}
