// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for route registration.

package routes

import (
	"context"
	"testing"

	"github.com/AleutianAI/stackreg/services/registry/clients"
	"github.com/AleutianAI/stackreg/services/registry/datatypes"
	"github.com/AleutianAI/stackreg/services/registry/deploy"
	"github.com/AleutianAI/stackreg/services/registry/refcheck"
	"github.com/AleutianAI/stackreg/services/registry/repository"
	"github.com/AleutianAI/stackreg/services/registry/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubDirectory struct{}

func (stubDirectory) LookupUser(context.Context, string) (*clients.User, error) {
	return nil, clients.ErrLookupNotFound
}

type stubImages struct{}

func (stubImages) LookupImage(context.Context, string) (*clients.Image, error) {
	return nil, clients.ErrLookupNotFound
}

type stubProvisioner struct{}

func (stubProvisioner) CreateWorkload(context.Context, datatypes.Params) (*clients.WorkloadHandle, error) {
	return &clients.WorkloadHandle{ID: "wl-0"}, nil
}

func TestSetupRoutes_RegistersFullSurface(t *testing.T) {
	store, err := storage.OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	check := refcheck.New(stubDirectory{}, stubImages{}, store)
	repos := Repositories{
		Applications: repository.NewApplications(store, check),
		Services:     repository.NewServices(store, check),
		Instances:    repository.NewInstances(store, check),
	}
	deployer := deploy.New(repos.Applications, repos.Services, stubProvisioner{}, nil)

	router := gin.New()
	SetupRoutes(router, repos, deployer)

	registered := make(map[string]bool)
	for _, route := range router.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"GET /health",
		"GET /metrics",
		"POST /v1/applications",
		"GET /v1/applications",
		"GET /v1/applications/:uuid",
		"DELETE /v1/applications/:uuid",
		"GET /v1/applications/:uuid/services",
		"POST /v1/services",
		"GET /v1/services",
		"GET /v1/services/:uuid",
		"DELETE /v1/services/:uuid",
		"GET /v1/services/:uuid/instances",
		"POST /v1/instances",
		"GET /v1/instances",
		"GET /v1/instances/:uuid",
		"DELETE /v1/instances/:uuid",
		"POST /v1/instances/:uuid/deploy",
	}
	for _, want := range expected {
		assert.True(t, registered[want], "missing route %s", want)
	}
}
