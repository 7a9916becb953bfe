// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the registry HTTP handlers.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

const (
	knownOwner = "owner-1"
	knownImage = "image-1"
)

type fakeDirectory struct{}

func (fakeDirectory) LookupUser(_ context.Context, uuid string) (*clients.User, error) {
	if uuid == knownOwner {
		return &clients.User{UUID: uuid}, nil
	}
	return nil, clients.ErrLookupNotFound
}

type fakeImages struct{}

func (fakeImages) LookupImage(_ context.Context, uuid string) (*clients.Image, error) {
	if uuid == knownImage {
		return &clients.Image{UUID: uuid}, nil
	}
	return nil, clients.ErrLookupNotFound
}

type fakeProvisioner struct {
	requests []datatypes.Params
}

func (f *fakeProvisioner) CreateWorkload(_ context.Context, params datatypes.Params) (*clients.WorkloadHandle, error) {
	f.requests = append(f.requests, params)
	return &clients.WorkloadHandle{ID: "wl-1", Status: "provisioning"}, nil
}

type handlerFixture struct {
	router      *gin.Engine
	apps        *repository.Applications
	services    *repository.Services
	instances   *repository.Instances
	provisioner *fakeProvisioner
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	store, err := storage.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, storage.EnsureBuckets(context.Background(), store))

	check := refcheck.New(fakeDirectory{}, fakeImages{}, store)
	f := &handlerFixture{
		apps:        repository.NewApplications(store, check),
		services:    repository.NewServices(store, check),
		instances:   repository.NewInstances(store, check),
		provisioner: &fakeProvisioner{},
	}
	deployer := deploy.New(f.apps, f.services, f.provisioner, nil)

	router := gin.New()
	router.POST("/v1/applications", CreateApplication(f.apps))
	router.GET("/v1/applications", ListApplications(f.apps))
	router.GET("/v1/applications/:uuid", GetApplication(f.apps))
	router.DELETE("/v1/applications/:uuid", DeleteApplication(f.apps))
	router.POST("/v1/services", CreateService(f.services))
	router.POST("/v1/instances", CreateInstance(f.instances))
	router.POST("/v1/instances/:uuid/deploy", DeployInstance(f.instances, deployer))
	f.router = router
	return f
}

func (f *handlerFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestCreateApplication_Created(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.do(t, http.MethodPost, "/v1/applications",
		datatypes.Application{Name: "app1", OwnerUUID: knownOwner})

	require.Equal(t, http.StatusCreated, w.Code)
	var created datatypes.Application
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.UUID)
}

func TestCreateApplication_InvalidBody(t *testing.T) {
	f := newHandlerFixture(t)

	req, _ := http.NewRequest(http.MethodPost, "/v1/applications",
		bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateApplication_MissingName(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.do(t, http.MethodPost, "/v1/applications",
		datatypes.Application{OwnerUUID: knownOwner})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Name")
}

func TestCreateService_DanglingApplication(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.do(t, http.MethodPost, "/v1/services", datatypes.Service{
		Name:            "svc1",
		ApplicationUUID: "missing",
		ImageUUID:       knownImage,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "application_uuid")
}

func TestGetApplication_NotFound(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.do(t, http.MethodGet, "/v1/applications/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteApplication_IdempotentOnAbsent(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.do(t, http.MethodDelete, "/v1/applications/never-existed", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeployInstance_MissingInstance(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.do(t, http.MethodPost, "/v1/instances/missing/deploy", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, f.provisioner.requests)
}

func TestDeployInstance_DanglingService(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	// Build a chain, then delete the service out from under the instance.
	app, err := f.apps.Create(ctx, &datatypes.Application{Name: "app1", OwnerUUID: knownOwner})
	require.NoError(t, err)
	svc, err := f.services.Create(ctx, &datatypes.Service{
		Name: "svc1", ApplicationUUID: app.UUID, ImageUUID: knownImage})
	require.NoError(t, err)
	inst, err := f.instances.Create(ctx, &datatypes.Instance{Name: "inst1", ServiceUUID: svc.UUID})
	require.NoError(t, err)
	require.NoError(t, f.services.Delete(ctx, svc.UUID))

	w := f.do(t, http.MethodPost, "/v1/instances/"+inst.UUID+"/deploy", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), string(deploy.StageResolveService))
	assert.Empty(t, f.provisioner.requests)
}

func TestDeployInstance_Accepted(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	app, err := f.apps.Create(ctx, &datatypes.Application{Name: "app1", OwnerUUID: knownOwner})
	require.NoError(t, err)
	svc, err := f.services.Create(ctx, &datatypes.Service{
		Name: "svc1", ApplicationUUID: app.UUID, ImageUUID: knownImage})
	require.NoError(t, err)
	inst, err := f.instances.Create(ctx, &datatypes.Instance{Name: "inst1", ServiceUUID: svc.UUID})
	require.NoError(t, err)

	w := f.do(t, http.MethodPost, "/v1/instances/"+inst.UUID+"/deploy", nil)

	require.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, f.provisioner.requests, 1)
	req := f.provisioner.requests[0]
	assert.Equal(t, knownOwner, req["owner_uuid"])
	assert.Equal(t, knownImage, req["image_uuid"])
	assert.Equal(t, inst.UUID, req["uuid"])
}

func TestHealthCheck_ReturnsOK(t *testing.T) {
	router := gin.New()
	router.GET("/health", HealthCheck)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "ok", response["status"])
}
