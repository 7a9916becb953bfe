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
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// Key layout inside the shared badger key space:
//
//	!bkt/<bucket>          bucket marker, value = schema hint
//	<bucket>/<id>          one record
//
// The marker prefix starts with '!' so it can never collide with a bucket
// name (bucket names are lowercase identifiers).
const (
	bucketMarkerPrefix = "!bkt/"
	keySeparator       = "/"
)

// Config holds configuration for the badger-backed store.
type Config struct {
	// Path is the directory for BadgerDB files.
	// Required for persistent databases. Ignored when InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	// Default: true for production, false for testing.
	SyncWrites bool

	// Logger is the logger for BadgerDB's internal operations.
	// If nil, BadgerDB's internal logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns production defaults: persistent, synchronous writes.
func DefaultConfig(path string) Config {
	return Config{
		Path:       path,
		SyncWrites: true,
	}
}

// InMemoryConfig returns configuration for testing: in-memory, async writes.
func InMemoryConfig() Config {
	return Config{
		InMemory: true,
	}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// BadgerStore implements Store on top of a single BadgerDB instance.
type BadgerStore struct {
	db *badger.DB
}

// Open creates and opens a badger-backed store with the given configuration.
//
// # Description
//
//	Opens a BadgerDB database at the configured path, or in memory if
//	InMemory is true. Creates the directory if it doesn't exist.
//
// # Inputs
//
//	cfg - Store configuration. Path is required unless InMemory is true.
//
// # Outputs
//
//	*BadgerStore - The opened store. Caller must call Close() when done.
//	error - Non-nil if path is invalid or the database cannot be opened.
//
// Thread Safety: The returned store is safe for concurrent use.
func Open(cfg Config) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil) // Disable BadgerDB's internal logging
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	return &BadgerStore{db: db}, nil
}

// OpenInMemory is a convenience function for opening an in-memory store.
func OpenInMemory() (*BadgerStore, error) {
	return Open(InMemoryConfig())
}

func recordKey(bucket, id string) []byte {
	return []byte(bucket + keySeparator + id)
}

func markerKey(bucket string) []byte {
	return []byte(bucketMarkerPrefix + bucket)
}

// EnsureBucket provisions the bucket marker if it does not exist.
//
// Idempotent: an existing marker is left untouched, so repeated
// initialization never fails with a duplicate-creation error.
func (s *BadgerStore) EnsureBucket(ctx context.Context, name, schemaHint string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(markerKey(name))
		if err == nil {
			return nil // already provisioned
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check bucket %s: %w", name, err)
		}
		if err := txn.Set(markerKey(name), []byte(schemaHint)); err != nil {
			return fmt.Errorf("create bucket %s: %w", name, err)
		}
		slog.Info("Provisioned storage bucket", "bucket", name, "schema_hint", schemaHint)
		return nil
	})
}

// BucketExists reports whether the bucket marker is present. Used only
// during initialization; the error distinguishes absence (ErrBucketNotFound)
// from engine failures.
func (s *BadgerStore) BucketExists(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(markerKey(name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrBucketNotFound
		}
		return err
	})
}

// Put upserts the record under the bucket, keyed by id.
func (s *BadgerStore) Put(ctx context.Context, bucket, id string, record []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(bucket, id), record)
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", bucket, id, err)
	}
	return nil
}

// Get returns the record for id, or ErrNotFound when absent.
func (s *BadgerStore) Get(ctx context.Context, bucket, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var record []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(bucket, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s/%s: %w", bucket, id, err)
		}
		record, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// List returns every record in the bucket, in unspecified order.
func (s *BadgerStore) List(ctx context.Context, bucket string) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix := []byte(bucket + keySeparator)
	var records [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			value, err := it.Item().ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("list %s: %w", bucket, err)
			}
			records = append(records, value)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes the record for id. Badger deletes are idempotent, so a
// missing id is not an error.
func (s *BadgerStore) Delete(ctx context.Context, bucket, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(recordKey(bucket, id))
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", bucket, id, err)
	}
	return nil
}

// Close releases the underlying BadgerDB instance.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

var _ Store = (*BadgerStore)(nil)
