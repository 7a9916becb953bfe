// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the collaborator HTTP clients.

package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AleutianAI/stackreg/services/registry/datatypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupUser_Found(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/u-1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(User{UUID: "u-1", Name: "alex"})
	}))
	defer srv.Close()

	client := NewDirectoryClientWithURL(srv.URL)
	user, err := client.LookupUser(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.UUID)
}

func TestLookupUser_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewDirectoryClientWithURL(srv.URL)
	_, err := client.LookupUser(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrLookupNotFound)
}

func TestLookupImage_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewImageClientWithURL(srv.URL)
	_, err := client.LookupImage(context.Background(), "img-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLookupNotFound)
}

func TestCreateWorkload_SubmitsParams(t *testing.T) {
	var received datatypes.Params
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/workloads", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(WorkloadHandle{ID: "wl-42", Status: "provisioning"})
	}))
	defer srv.Close()

	client := NewProvisionerClientWithURL(srv.URL)
	handle, err := client.CreateWorkload(context.Background(),
		datatypes.Params{"uuid": "i-1", "image_uuid": "img-1"})
	require.NoError(t, err)
	assert.Equal(t, "wl-42", handle.ID)
	assert.Equal(t, "i-1", received["uuid"])
	assert.Equal(t, "img-1", received["image_uuid"])
}

func TestNewDirectoryClient_RequiresEnv(t *testing.T) {
	t.Setenv("DIRECTORY_SERVICE_URL", "")
	_, err := NewDirectoryClient()
	require.Error(t, err)
}
