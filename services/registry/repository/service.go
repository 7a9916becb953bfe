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

// Services is the repository for Service records.
type Services struct {
	store storage.Store
	check *refcheck.Validator
}

// NewServices creates the Service repository.
func NewServices(store storage.Store, check *refcheck.Validator) *Services {
	return &Services{store: store, check: check}
}

// Create validates, assigns an identifier when absent, then runs the two
// referential checks in order (parent application first, image second,
// fail-fast) before the single persisting write.
//
// A missing application or image is a *datatypes.ReferentialError. An image
// registry transport failure propagates as-is (see refcheck for the
// asymmetry with owner lookups).
func (r *Services) Create(ctx context.Context, svc *datatypes.Service) (*datatypes.Service, error) {
	if err := svc.Validate(); err != nil {
		return nil, err
	}
	if svc.UUID == "" {
		svc.UUID = uuid.NewString()
	}

	ok, err := r.check.ApplicationExists(ctx, svc.ApplicationUUID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &datatypes.ReferentialError{Reference: "application_uuid", UUID: svc.ApplicationUUID}
	}

	ok, err = r.check.ImageExists(ctx, svc.ImageUUID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &datatypes.ReferentialError{Reference: "image_uuid", UUID: svc.ImageUUID}
	}

	if err := putRecord(ctx, r.store, storage.ServiceBucket, svc.UUID, svc); err != nil {
		return nil, err
	}
	slog.Info("Created service", "uuid", svc.UUID, "name", svc.Name,
		"application_uuid", svc.ApplicationUUID, "image_uuid", svc.ImageUUID)
	return svc, nil
}

// Get returns the Service for uuid. Absence is found=false, not an error.
func (r *Services) Get(ctx context.Context, id string) (*datatypes.Service, bool, error) {
	return getRecord[datatypes.Service](ctx, r.store, storage.ServiceBucket, id)
}

// List returns every Service, in unspecified order.
func (r *Services) List(ctx context.Context) ([]*datatypes.Service, error) {
	return listRecords[datatypes.Service](ctx, r.store, storage.ServiceBucket)
}

// ListByApplication returns the Services whose parent is appUUID.
func (r *Services) ListByApplication(ctx context.Context, appUUID string) ([]*datatypes.Service, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]*datatypes.Service, 0, len(all))
	for _, svc := range all {
		if svc.ApplicationUUID == appUUID {
			matched = append(matched, svc)
		}
	}
	return matched, nil
}

// Delete removes the Service by identifier. Idempotent on absence and does
// not cascade to dependent Instances.
func (r *Services) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, storage.ServiceBucket, id)
}
