// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package clients provides the registry's external collaborator clients:
// the directory (identity) service, the image registry, and the workload
// provisioner.
//
// Each collaborator is an interface so the repositories and the deploy
// pipeline take test doubles; the HTTP implementations here are thin
// wrappers over already-existing infrastructure and carry no design of
// their own. Retry and timeout policy is the collaborator client's concern,
// not the registry's: the shared http.Client timeout is the only limit
// applied here.
package clients

import (
	"context"
	"errors"

	"github.com/AleutianAI/stackreg/services/registry/datatypes"
)

// ErrLookupNotFound is returned by lookup calls when the collaborator
// reports the identifier does not exist. Distinguishable from transport
// failures so callers can decide whether absence is an error.
var ErrLookupNotFound = errors.New("lookup target not found")

// User is a principal record resolved by the directory service. Only the
// identifier matters to the registry; the rest is passed through for
// logging.
type User struct {
	UUID  string `json:"uuid"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Image is image metadata resolved by the image registry.
type Image struct {
	UUID     string `json:"uuid"`
	Name     string `json:"name,omitempty"`
	Checksum string `json:"checksum,omitempty"`
}

// WorkloadHandle identifies a provisioned workload.
type WorkloadHandle struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
}

// DirectoryClient resolves owner identifiers to principal records.
// Used only for existence checks by the registry.
type DirectoryClient interface {
	// LookupUser returns the principal for uuid, ErrLookupNotFound when the
	// directory has no such principal, or a transport error.
	LookupUser(ctx context.Context, uuid string) (*User, error)
}

// ImageClient resolves image identifiers to image metadata.
// Used only for existence checks by the registry.
type ImageClient interface {
	// LookupImage returns the image for uuid, ErrLookupNotFound when the
	// registry has no such image, or a transport error.
	LookupImage(ctx context.Context, uuid string) (*Image, error)
}

// ProvisionerClient instantiates running workloads from a flat parameter
// set.
type ProvisionerClient interface {
	// CreateWorkload submits one provisioning request and returns the
	// handle of the created workload.
	CreateWorkload(ctx context.Context, params datatypes.Params) (*WorkloadHandle, error)
}
