// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package repository provides the entity repositories for the three
// registry kinds: Application, Service, Instance.
//
// # Create discipline
//
// Every Create runs the same sequence:
//
//  1. Required-field validation (datatypes.Validate, a client error).
//  2. Identifier assignment when the caller supplied none.
//  3. Kind-specific referential checks, sequential and fail-fast: the
//     first failure aborts the rest of the checks and the create.
//  4. One Put into the kind's bucket.
//
// No write happens unless every check passed, so a failed create leaves no
// partial state. Caller-supplied identifiers are accepted verbatim; two
// concurrent creates of the same identifier race at the storage layer and
// the engine's key uniqueness is the only protection.
//
// # Absence
//
// Get returns (record, found, err): absence is found=false with a nil
// error, never a failure. Delete is idempotent and does not cascade;
// deleting an Application leaves its Services and Instances with a dangling
// parent reference. That referential gap is a documented non-goal.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AleutianAI/stackreg/services/registry/storage"
)

// getRecord loads and decodes one record. Absence maps to found=false.
func getRecord[T any](ctx context.Context, store storage.Store, bucket, id string) (*T, bool, error) {
	raw, err := store.Get(ctx, bucket, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var record T
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, false, fmt.Errorf("decode %s record %s: %w", bucket, id, err)
	}
	return &record, true, nil
}

// listRecords loads and decodes every record in a bucket.
func listRecords[T any](ctx context.Context, store storage.Store, bucket string) ([]*T, error) {
	raws, err := store.List(ctx, bucket)
	if err != nil {
		return nil, err
	}
	records := make([]*T, 0, len(raws))
	for _, raw := range raws {
		var record T
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("decode %s record: %w", bucket, err)
		}
		records = append(records, &record)
	}
	return records, nil
}

// putRecord encodes and upserts one record.
func putRecord(ctx context.Context, store storage.Store, bucket, id string, record any) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s record %s: %w", bucket, id, err)
	}
	return store.Put(ctx, bucket, id, raw)
}
