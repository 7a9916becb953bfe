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

func CreateService(repo *repository.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var svc datatypes.Service
		if err := c.ShouldBindJSON(&svc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		created, err := repo.Create(c.Request.Context(), &svc)
		observability.DefaultMetrics.RecordEntityOp("service", "create", err == nil)
		if err != nil {
			slog.Error("Service create failed", "name", svc.Name, "error", err)
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func ListServices(repo *repository.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		services, err := repo.List(c.Request.Context())
		observability.DefaultMetrics.RecordEntityOp("service", "list", err == nil)
		if err != nil {
			slog.Error("Service list failed", "error", err)
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, services)
	}
}

func GetService(repo *repository.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("uuid")
		svc, found, err := repo.Get(c.Request.Context(), id)
		observability.DefaultMetrics.RecordEntityOp("service", "get", err == nil)
		if err != nil {
			slog.Error("Service get failed", "uuid", id, "error", err)
			writeError(c, err)
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "service not found", "uuid": id})
			return
		}
		c.JSON(http.StatusOK, svc)
	}
}

func DeleteService(repo *repository.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("uuid")
		err := repo.Delete(c.Request.Context(), id)
		observability.DefaultMetrics.RecordEntityOp("service", "delete", err == nil)
		if err != nil {
			slog.Error("Service delete failed", "uuid", id, "error", err)
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted", "uuid": id})
	}
}

// ListServiceInstances returns the Instances owned by a Service.
func ListServiceInstances(repo *repository.Instances) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("uuid")
		instances, err := repo.ListByService(c.Request.Context(), id)
		if err != nil {
			slog.Error("Instance list by service failed", "service_uuid", id, "error", err)
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, instances)
	}
}
