package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limit.toml")
	if err := os.WriteFile(path, []byte("max_characters = 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c Config, err error) {
			if err == nil {
				got <- c
			}
		}, WithDebounce(10*time.Millisecond), WithLoader(func(p string) (Config, error) {
			return LoadFS(DefaultFS(), p, nil)
		}))
	}()

	// Give the watcher time to register before writing.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case c := <-got:
			if c.MaxCharacters != 9 {
				continue
			}
			cancel()
			if err := <-done; err != context.Canceled {
				t.Errorf("Watch returned %v, want context.Canceled", err)
			}
			return
		case <-tick.C:
			if err := os.WriteFile(path, []byte("max_characters = 9\n"), 0o644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limit.toml")
	if err := os.WriteFile(path, []byte("max_characters = 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	calls := make(chan struct{}, 16)
	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1\n"), 0o644)
	}()
	err := Watch(ctx, path, func(Config, error) { calls <- struct{}{} }, WithDebounce(10*time.Millisecond))
	if err != context.DeadlineExceeded {
		t.Errorf("Watch returned %v", err)
	}
	if len(calls) != 0 {
		t.Errorf("reloaded %d times for an unrelated file", len(calls))
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "limit.toml"), func(Config, error) {})
	if err == nil {
		t.Error("expected error for a missing directory")
	}
}
