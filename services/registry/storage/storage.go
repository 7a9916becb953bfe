// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package storage provides the key-value storage adapter for the registry.
//
// Each entity kind lives in its own bucket (namespace). Records are keyed by
// their identifier, so the store's key uniqueness is the uniqueness
// constraint on the identifier field: two concurrent writes of the same id
// race at this layer and the last write wins, exactly the semantics of the
// underlying engine.
//
// The production implementation is backed by BadgerDB (embedded LSM store,
// ~100µs access). Tests use the in-memory configuration.
//
// # Thread Safety
//
// All Store implementations in this package are safe for concurrent use.
package storage

import (
	"context"
	"errors"
)

// Sentinel errors for storage operations.
var (
	// ErrNotFound is returned by Get when no record exists for the id.
	// Absence is an expected result, not a failure; callers must check for
	// this sentinel rather than treating every error as a backend fault.
	ErrNotFound = errors.New("record not found")

	// ErrBucketNotFound reports a bucket that has not been provisioned.
	// Only surfaced during initialization; regular operations treat the
	// engine's own semantics as authoritative.
	ErrBucketNotFound = errors.New("bucket not found")
)

// Store is the consumed contract over the key-value engine.
//
// # Description
//
// Store exposes per-bucket record CRUD plus idempotent bucket provisioning.
// Records cross this boundary as raw JSON; the repositories own the schema.
//
// # Assumptions
//
//   - Bucket names are stable, lowercase identifiers ("applications", ...)
//   - Every read reflects the engine's current state (no caching layer)
type Store interface {
	// EnsureBucket provisions the named bucket if it does not exist.
	// Idempotent: calling it for an existing bucket is a no-op. The
	// schemaHint documents the indexed identifier field for operators; the
	// engine itself enforces uniqueness through its key space.
	EnsureBucket(ctx context.Context, name, schemaHint string) error

	// Put upserts the record under the bucket, keyed by id.
	Put(ctx context.Context, bucket, id string, record []byte) error

	// Get returns the record for id, or ErrNotFound when absent.
	Get(ctx context.Context, bucket, id string) ([]byte, error)

	// List returns every record in the bucket, in unspecified order.
	List(ctx context.Context, bucket string) ([][]byte, error)

	// Delete removes the record for id. Deleting an absent id is not an
	// error.
	Delete(ctx context.Context, bucket, id string) error

	// Close releases the underlying engine.
	Close() error
}
