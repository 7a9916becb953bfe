// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/AleutianAI/stackreg/services/registry/deploy"
	"github.com/AleutianAI/stackreg/services/registry/handlers"
	"github.com/AleutianAI/stackreg/services/registry/repository"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Repositories bundles the three entity repositories for route wiring.
type Repositories struct {
	Applications *repository.Applications
	Services     *repository.Services
	Instances    *repository.Instances
}

func SetupRoutes(router *gin.Engine, repos Repositories, deployer *deploy.Deployer) {

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	{
		applications := v1.Group("/applications")
		{
			applications.POST("", handlers.CreateApplication(repos.Applications))
			applications.GET("", handlers.ListApplications(repos.Applications))
			applications.GET("/:uuid", handlers.GetApplication(repos.Applications))
			applications.DELETE("/:uuid", handlers.DeleteApplication(repos.Applications))
			applications.GET("/:uuid/services", handlers.ListApplicationServices(repos.Services))
		}

		services := v1.Group("/services")
		{
			services.POST("", handlers.CreateService(repos.Services))
			services.GET("", handlers.ListServices(repos.Services))
			services.GET("/:uuid", handlers.GetService(repos.Services))
			services.DELETE("/:uuid", handlers.DeleteService(repos.Services))
			services.GET("/:uuid/instances", handlers.ListServiceInstances(repos.Instances))
		}

		instances := v1.Group("/instances")
		{
			instances.POST("", handlers.CreateInstance(repos.Instances))
			instances.GET("", handlers.ListInstances(repos.Instances))
			instances.GET("/:uuid", handlers.GetInstance(repos.Instances))
			instances.DELETE("/:uuid", handlers.DeleteInstance(repos.Instances))
			instances.POST("/:uuid/deploy", handlers.DeployInstance(repos.Instances, deployer))
		}
	}
}
