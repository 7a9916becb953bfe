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
	"github.com/AleutianAI/stackreg/services/registry/deploy"
	"github.com/AleutianAI/stackreg/services/registry/observability"
	"github.com/AleutianAI/stackreg/services/registry/repository"
	"github.com/gin-gonic/gin"
)

func CreateInstance(repo *repository.Instances) gin.HandlerFunc {
	return func(c *gin.Context) {
		var inst datatypes.Instance
		if err := c.ShouldBindJSON(&inst); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		created, err := repo.Create(c.Request.Context(), &inst)
		observability.DefaultMetrics.RecordEntityOp("instance", "create", err == nil)
		if err != nil {
			slog.Error("Instance create failed", "name", inst.Name, "error", err)
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func ListInstances(repo *repository.Instances) gin.HandlerFunc {
	return func(c *gin.Context) {
		instances, err := repo.List(c.Request.Context())
		observability.DefaultMetrics.RecordEntityOp("instance", "list", err == nil)
		if err != nil {
			slog.Error("Instance list failed", "error", err)
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, instances)
	}
}

func GetInstance(repo *repository.Instances) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("uuid")
		inst, found, err := repo.Get(c.Request.Context(), id)
		observability.DefaultMetrics.RecordEntityOp("instance", "get", err == nil)
		if err != nil {
			slog.Error("Instance get failed", "uuid", id, "error", err)
			writeError(c, err)
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "instance not found", "uuid": id})
			return
		}
		c.JSON(http.StatusOK, inst)
	}
}

func DeleteInstance(repo *repository.Instances) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("uuid")
		err := repo.Delete(c.Request.Context(), id)
		observability.DefaultMetrics.RecordEntityOp("instance", "delete", err == nil)
		if err != nil {
			slog.Error("Instance delete failed", "uuid", id, "error", err)
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted", "uuid": id})
	}
}

// DeployInstance resolves the instance, runs the deploy pipeline and
// returns the workload handle.
func DeployInstance(repo *repository.Instances, deployer *deploy.Deployer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("uuid")
		slog.Info("Received deploy request", "instance_uuid", id)

		inst, found, err := repo.Get(c.Request.Context(), id)
		if err != nil {
			slog.Error("Instance lookup for deploy failed", "uuid", id, "error", err)
			writeError(c, err)
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "instance not found", "uuid": id})
			return
		}

		handle, err := deployer.Deploy(c.Request.Context(), inst)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{
			"instance_uuid": inst.UUID,
			"workload":      handle,
		})
	}
}
