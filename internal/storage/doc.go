// Package storage provides the embedded key-value store used for local
// client state.
//
// The KV interface is small on purpose: the client keeps a handful of keys
// (the session token under "session/token") and never needs range scans
// beyond a prefix listing. BadgerKV implements it on top of Badger v3 with
// client-sized defaults, a background value-log GC loop and optional
// Prometheus size gauges.
package storage
