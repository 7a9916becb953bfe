// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package repository

import (
	"context"
	"log/slog"

	"github.com/AleutianAI/stackreg/services/registry/datatypes"
	"github.com/AleutianAI/stackreg/services/registry/refcheck"
	"github.com/AleutianAI/stackreg/services/registry/storage"
	"github.com/google/uuid"
)

// Applications is the repository for Application records.
type Applications struct {
	store storage.Store
	check *refcheck.Validator
}

// NewApplications creates the Application repository.
func NewApplications(store storage.Store, check *refcheck.Validator) *Applications {
	return &Applications{store: store, check: check}
}

// Create validates, assigns an identifier when absent, confirms the owner
// resolves against the directory service, and persists the record. Returns
// the materialized record on success.
//
// Failure modes: *datatypes.ValidationError for missing fields,
// *datatypes.ReferentialError when the owner cannot be confirmed, backend
// errors unchanged.
func (r *Applications) Create(ctx context.Context, app *datatypes.Application) (*datatypes.Application, error) {
	if err := app.Validate(); err != nil {
		return nil, err
	}
	if app.UUID == "" {
		app.UUID = uuid.NewString()
	}

	if !r.check.OwnerExists(ctx, app.OwnerUUID) {
		return nil, &datatypes.ReferentialError{Reference: "owner_uuid", UUID: app.OwnerUUID}
	}

	if err := putRecord(ctx, r.store, storage.ApplicationBucket, app.UUID, app); err != nil {
		return nil, err
	}
	slog.Info("Created application", "uuid", app.UUID, "name", app.Name, "owner_uuid", app.OwnerUUID)
	return app, nil
}

// Get returns the Application for uuid. Absence is found=false, not an
// error.
func (r *Applications) Get(ctx context.Context, id string) (*datatypes.Application, bool, error) {
	return getRecord[datatypes.Application](ctx, r.store, storage.ApplicationBucket, id)
}

// List returns every Application, in unspecified order.
func (r *Applications) List(ctx context.Context) ([]*datatypes.Application, error) {
	return listRecords[datatypes.Application](ctx, r.store, storage.ApplicationBucket)
}

// Delete removes the Application by identifier. Idempotent on absence and
// does not cascade to dependent Services.
func (r *Applications) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, storage.ApplicationBucket, id)
}
