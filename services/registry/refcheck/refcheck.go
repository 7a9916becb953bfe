// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package refcheck provides the referential validator: existence checks for
// the owner identity, the image, and the parent entities, run before any
// dependent record is durably created.
//
// # Error semantics
//
// The two collaborator-backed checks are deliberately asymmetric:
//
//   - OwnerExists coerces every lookup failure, including transport
//     errors, to false. Callers cannot distinguish "owner does not exist"
//     from "directory unreachable".
//   - ImageExists propagates transport errors, so an unreachable image
//     registry fails the create with a backend error instead of a
//     referential one.
//
// Both behaviors are carried over from the source system and pinned by
// tests; confirm intended semantics before hardening either path.
package refcheck

import (
	"context"
	"errors"
	"log/slog"

	"github.com/AleutianAI/stackreg/services/registry/clients"
	"github.com/AleutianAI/stackreg/services/registry/storage"
)

// Validator runs existence checks against the directory service, the image
// registry, and the entity buckets.
//
// # Thread Safety
//
// Safe for concurrent use; all fields are read-only after construction.
type Validator struct {
	directory clients.DirectoryClient
	images    clients.ImageClient
	store     storage.Store
}

// New creates a Validator over the given collaborators and store.
func New(directory clients.DirectoryClient, images clients.ImageClient,
	store storage.Store) *Validator {
	return &Validator{
		directory: directory,
		images:    images,
		store:     store,
	}
}

// OwnerExists reports whether the owner identifier resolves against the
// directory service.
//
// Any lookup failure returns false. A directory outage therefore surfaces
// to the caller as a referential error on create, not as a backend error.
// Suspect but intentional; see the package comment.
func (v *Validator) OwnerExists(ctx context.Context, ownerUUID string) bool {
	user, err := v.directory.LookupUser(ctx, ownerUUID)
	if err != nil {
		if !errors.Is(err, clients.ErrLookupNotFound) {
			slog.Warn("Directory lookup failed, treating owner as absent",
				"owner_uuid", ownerUUID, "error", err)
		}
		return false
	}
	return user != nil
}

// ImageExists reports whether the image identifier resolves against the
// image registry.
//
// Unlike OwnerExists, a transport error propagates to the caller; only a
// clean "not found" maps to (false, nil). Suspect asymmetry; see the
// package comment.
func (v *Validator) ImageExists(ctx context.Context, imageUUID string) (bool, error) {
	image, err := v.images.LookupImage(ctx, imageUUID)
	if errors.Is(err, clients.ErrLookupNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return image != nil, nil
}

// ApplicationExists reports whether an Application record exists in storage.
func (v *Validator) ApplicationExists(ctx context.Context, appUUID string) (bool, error) {
	return v.recordExists(ctx, storage.ApplicationBucket, appUUID)
}

// ServiceExists reports whether a Service record exists in storage.
func (v *Validator) ServiceExists(ctx context.Context, serviceUUID string) (bool, error) {
	return v.recordExists(ctx, storage.ServiceBucket, serviceUUID)
}

func (v *Validator) recordExists(ctx context.Context, bucket, id string) (bool, error) {
	_, err := v.store.Get(ctx, bucket, id)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
