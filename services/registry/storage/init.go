// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package storage

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Bucket names for the three entity kinds.
const (
	ApplicationBucket = "applications"
	ServiceBucket     = "services"
	InstanceBucket    = "instances"
)

// entityBuckets maps each bucket to its schema hint (the indexed
// identifier field).
var entityBuckets = map[string]string{
	ApplicationBucket: "uuid",
	ServiceBucket:     "uuid",
	InstanceBucket:    "uuid",
}

// EnsureBuckets provisions the three entity buckets with bounded
// parallelism.
//
// # Description
//
// The buckets are independent, so provisioning fans out one goroutine per
// bucket and joins on completion. The first failure cancels the remaining
// work and fails initialization as a whole. Idempotent: running it against
// an already-provisioned store is a no-op.
//
// # Outputs
//
//   - error: Non-nil if any bucket could not be provisioned.
func EnsureBuckets(ctx context.Context, store Store) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(len(entityBuckets))

	for name, hint := range entityBuckets {
		name, hint := name, hint
		g.Go(func() error {
			if err := store.EnsureBucket(ctx, name, hint); err != nil {
				return fmt.Errorf("ensure bucket %s: %w", name, err)
			}
			return nil
		})
	}

	return g.Wait()
}
