package repl

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewHistory(t *testing.T) {
	h := NewHistory("", 0)
	if h.maxSize != DefaultHistorySize {
		t.Errorf("maxSize = %d, want %d", h.maxSize, DefaultHistorySize)
	}
	if h.Len() != 0 {
		t.Error("new history should be empty")
	}
}

func TestCarriesSecret(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"auth login --email a@b.c --password hunter2", true},
		{"auth login --password=hunter2", true},
		{"auth login -e a@b.c -p hunter2", true},
		{"auth login --password-stdin", true},
		{"config show --passphrase x", true},
		{"profile update --income 3000", false},
		{"chat send what is a password manager", false},
		{"market stock SPY", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := carriesSecret(tt.line); got != tt.want {
				t.Errorf("carriesSecret(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestHistory_Add(t *testing.T) {
	h := NewHistory("", 3)
	h.Add("cmd1")
	h.Add("cmd1")
	h.Add("")
	h.Add("auth login --email a@b.c --password hunter2")
	h.Add("cmd2")
	h.Add("cmd3")
	h.Add("cmd4")

	want := []string{"cmd2", "cmd3", "cmd4"}
	got := h.Entries()
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entries[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestHistory_Get(t *testing.T) {
	h := NewHistory("", 10)
	h.Add("first")
	h.Add("second")
	h.Add("third")

	tests := []struct {
		index int
		want  string
	}{
		{0, "third"},
		{1, "second"},
		{2, "first"},
		{3, ""},
		{-1, ""},
	}
	for _, tt := range tests {
		if got := h.Get(tt.index); got != tt.want {
			t.Errorf("Get(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestHistory_SaveLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "history")

	h := NewHistory(file, 10)
	h.Add("budget latest")
	h.Add("dashboard")
	if err := h.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(file)
	if err != nil {
		t.Fatalf("history file not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("mode = %o, want 600", perm)
	}

	h2 := NewHistory(file, 10)
	if err := h2.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if h2.Len() != 2 || h2.Get(0) != "dashboard" {
		t.Errorf("loaded %v", h2.Entries())
	}
}

func TestHistory_LoadTrimsToMax(t *testing.T) {
	file := filepath.Join(t.TempDir(), "history")
	if err := os.WriteFile(file, []byte("a\nb\nc\nd\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	h := NewHistory(file, 2)
	if err := h.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := h.Entries(); len(got) != 2 || got[0] != "c" {
		t.Errorf("entries = %v", got)
	}
}

func TestHistory_LoadMissingFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "missing"), 10)
	if err := h.Load(); err != nil {
		t.Errorf("Load of missing file: %v", err)
	}
}

func TestHistory_InMemory(t *testing.T) {
	h := NewHistory("", 10)
	h.Add("x")
	if err := h.Save(); err != nil {
		t.Errorf("Save without file: %v", err)
	}
	if err := h.Load(); err != nil {
		t.Errorf("Load without file: %v", err)
	}
}
