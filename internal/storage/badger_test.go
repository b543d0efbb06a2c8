package storage

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func openTestKV(t *testing.T, dir string) *BadgerKV {
	t.Helper()

	cfg := DefaultConfig(dir)
	cfg.GCInterval = "" // no background GC in tests
	cfg.SyncWrites = false

	kv, err := OpenBadger(cfg, slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	return kv
}

func TestBadgerKV_BasicOperations(t *testing.T) {
	kv := openTestKV(t, t.TempDir())
	defer kv.Close()

	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		if err := kv.Set(ctx, []byte("session/token"), []byte("abc")); err != nil {
			t.Fatal(err)
		}
		got, err := kv.Get(ctx, []byte("session/token"))
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "abc" {
			t.Errorf("expected abc, got %s", got)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		if err := kv.Set(ctx, []byte("session/token"), []byte("def")); err != nil {
			t.Fatal(err)
		}
		got, _ := kv.Get(ctx, []byte("session/token"))
		if string(got) != "def" {
			t.Errorf("expected def, got %s", got)
		}
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		_, err := kv.Get(ctx, []byte("non-existent"))
		if !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := kv.Delete(ctx, []byte("session/token")); err != nil {
			t.Fatal(err)
		}
		if _, err := kv.Get(ctx, []byte("session/token")); !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
		}
	})

	t.Run("Delete missing key", func(t *testing.T) {
		if err := kv.Delete(ctx, []byte("never-set")); err != nil {
			t.Errorf("Delete() of missing key error = %v", err)
		}
	})
}

func TestBadgerKV_Persistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	kv := openTestKV(t, dir)
	if err := kv.Set(ctx, []byte("session/token"), []byte("persisted")); err != nil {
		t.Fatal(err)
	}
	if err := kv.Close(); err != nil {
		t.Fatal(err)
	}

	reopened := openTestKV(t, dir)
	defer reopened.Close()

	got, err := reopened.Get(ctx, []byte("session/token"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "persisted" {
		t.Errorf("expected persisted, got %s", got)
	}
}

func TestBadgerKV_Closed(t *testing.T) {
	kv := openTestKV(t, t.TempDir())
	if err := kv.Close(); err != nil {
		t.Fatal(err)
	}
	if err := kv.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	ctx := context.Background()
	if _, err := kv.Get(ctx, []byte("k")); !errors.Is(err, ErrClosed) {
		t.Errorf("Get() after close error = %v, want ErrClosed", err)
	}
	if err := kv.Set(ctx, []byte("k"), []byte("v")); !errors.Is(err, ErrClosed) {
		t.Errorf("Set() after close error = %v, want ErrClosed", err)
	}
}

func TestBadgerKV_GCAndStats(t *testing.T) {
	kv := openTestKV(t, t.TempDir())
	defer kv.Close()

	ctx := context.Background()
	if err := kv.GC(ctx); err != nil {
		t.Fatalf("GC() error = %v", err)
	}

	stats, err := kv.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.LastGCTime == 0 {
		t.Error("LastGCTime should be set after GC")
	}
}

func TestBadgerKV_RegisterMetrics(t *testing.T) {
	kv := openTestKV(t, t.TempDir())
	defer kv.Close()

	reg := prometheus.NewRegistry()
	kv.RegisterMetrics(reg)

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"moneygrowth_badger_total_size_bytes",
		"moneygrowth_badger_gc_rewrites_total",
	} {
		if !names[want] {
			t.Errorf("metric %s not registered", want)
		}
	}
}
