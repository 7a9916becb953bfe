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

// Instances is the repository for Instance records.
type Instances struct {
	store storage.Store
	check *refcheck.Validator
}

// NewInstances creates the Instance repository.
func NewInstances(store storage.Store, check *refcheck.Validator) *Instances {
	return &Instances{store: store, check: check}
}

// Create validates, assigns an identifier when absent, confirms the parent
// Service exists, and persists the record.
func (r *Instances) Create(ctx context.Context, inst *datatypes.Instance) (*datatypes.Instance, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	if inst.UUID == "" {
		inst.UUID = uuid.NewString()
	}

	ok, err := r.check.ServiceExists(ctx, inst.ServiceUUID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &datatypes.ReferentialError{Reference: "service_uuid", UUID: inst.ServiceUUID}
	}

	if err := putRecord(ctx, r.store, storage.InstanceBucket, inst.UUID, inst); err != nil {
		return nil, err
	}
	slog.Info("Created instance", "uuid", inst.UUID, "name", inst.Name,
		"service_uuid", inst.ServiceUUID)
	return inst, nil
}

// Get returns the Instance for uuid. Absence is found=false, not an error.
func (r *Instances) Get(ctx context.Context, id string) (*datatypes.Instance, bool, error) {
	return getRecord[datatypes.Instance](ctx, r.store, storage.InstanceBucket, id)
}

// List returns every Instance, in unspecified order.
func (r *Instances) List(ctx context.Context) ([]*datatypes.Instance, error) {
	return listRecords[datatypes.Instance](ctx, r.store, storage.InstanceBucket)
}

// ListByService returns the Instances whose parent is serviceUUID.
func (r *Instances) ListByService(ctx context.Context, serviceUUID string) ([]*datatypes.Instance, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]*datatypes.Instance, 0, len(all))
	for _, inst := range all {
		if inst.ServiceUUID == serviceUUID {
			matched = append(matched, inst)
		}
	}
	return matched, nil
}

// Delete removes the Instance by identifier. Idempotent on absence.
func (r *Instances) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, storage.InstanceBucket, id)
}
