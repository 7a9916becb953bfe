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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	store, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// TestOpen_PersistentRequiresPath verifies the path guard for disk mode.
func TestOpen_PersistentRequiresPath(t *testing.T) {
	_, err := Open(Config{})
	require.Error(t, err)
}

// TestOpenWithPath verifies records survive a close/reopen cycle.
func TestOpenWithPath(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(DefaultConfig(dir))
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, ApplicationBucket, "a1", []byte(`{"uuid":"a1"}`)))
	require.NoError(t, store.Close())

	store2, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	defer store2.Close()

	record, err := store2.Get(ctx, ApplicationBucket, "a1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"uuid":"a1"}`), record)
}

func TestPutGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, ServiceBucket, "s1", []byte(`{"uuid":"s1"}`)))

	record, err := store.Get(ctx, ServiceBucket, "s1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"uuid":"s1"}`, string(record))
}

func TestGet_AbsentReturnsErrNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), ServiceBucket, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

// TestGet_BucketsAreIsolated verifies an id in one bucket is invisible
// from another.
func TestGet_BucketsAreIsolated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, ApplicationBucket, "x", []byte(`{}`)))

	_, err := store.Get(ctx, ServiceBucket, "x")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestList_ReturnsAllRecords(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, InstanceBucket, "i1", []byte(`{"uuid":"i1"}`)))
	require.NoError(t, store.Put(ctx, InstanceBucket, "i2", []byte(`{"uuid":"i2"}`)))
	require.NoError(t, store.Put(ctx, ServiceBucket, "s1", []byte(`{"uuid":"s1"}`)))

	records, err := store.List(ctx, InstanceBucket)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestList_EmptyBucket(t *testing.T) {
	store := newTestStore(t)

	records, err := store.List(context.Background(), InstanceBucket)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDelete_IsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, ApplicationBucket, "a1", []byte(`{}`)))
	require.NoError(t, store.Delete(ctx, ApplicationBucket, "a1"))
	// Second delete of the same id must not error.
	require.NoError(t, store.Delete(ctx, ApplicationBucket, "a1"))
	// Deleting an id that never existed must not error either.
	require.NoError(t, store.Delete(ctx, ApplicationBucket, "never-existed"))

	_, err := store.Get(ctx, ApplicationBucket, "a1")
	require.ErrorIs(t, err, ErrNotFound)
}

// TestEnsureBuckets_Idempotent runs initialization twice and expects all
// three buckets present with no duplicate-creation error.
func TestEnsureBuckets_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, EnsureBuckets(ctx, store))
	require.NoError(t, EnsureBuckets(ctx, store))

	for _, bucket := range []string{ApplicationBucket, ServiceBucket, InstanceBucket} {
		assert.NoError(t, store.BucketExists(ctx, bucket), "bucket %s should exist", bucket)
	}
}

func TestBucketExists_AbsentBucket(t *testing.T) {
	store := newTestStore(t)

	err := store.BucketExists(context.Background(), "nonexistent")
	require.ErrorIs(t, err, ErrBucketNotFound)
}

func TestOperations_CancelledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, store.Put(ctx, ApplicationBucket, "a1", []byte(`{}`)))
	_, err := store.Get(ctx, ApplicationBucket, "a1")
	assert.Error(t, err)
}
