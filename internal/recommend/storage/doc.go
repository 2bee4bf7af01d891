// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package storage persists published recommendation models.
//
// Models are kept in BadgerDB so that a restarted server can serve the last
// trained model immediately instead of waiting for a new training run.
//
// # Storage Format
//
// Each version is stored under two keys:
//
//	model:meta:{version}  JSON-encoded ModelMetadata
//	model:blob:{version}  gzip-compressed gob model state (recommend.Encode)
//
// Versions are zero padded to twenty digits so iteration order matches
// version order. The metadata carries a SHA-256 checksum of the blob which
// Load verifies before decoding.
//
// # Usage Example
//
//	store, err := storage.Open("/data/models")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	published := engine.Publish(result.Model)
//	meta, err := store.Save(ctx, published, storage.MetadataFor(published, result.Report))
//
//	// On startup
//	model, meta, err := store.Load(ctx, 0) // 0 = latest
//	if err == nil {
//	    engine.Publish(model)
//	}
//
// # Retention
//
// Prune keeps the newest N versions and deletes the rest. The training
// service calls it after every successful save.
//
// # Thread Safety
//
// Reads run in BadgerDB read transactions. Writers are serialized by a mutex
// so Prune never observes a half-written version.
package storage
