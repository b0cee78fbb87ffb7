package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type watchedConfig struct {
	Name  string `toml:"name"`
	Value int    `toml:"value"`
}

func loadWatchedConfig(path string) (watchedConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return watchedConfig{}, err
	}
	var cfg watchedConfig
	err = toml.Unmarshal(data, &cfg)
	return cfg, err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestConfigWatcherBasicReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.toml")
	if err := os.WriteFile(path, []byte("name = \"initial\"\nvalue = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	received := make(chan watchedConfig, 1)
	watcher := NewConfigWatcher(
		path,
		loadWatchedConfig,
		newTestLogger(),
		WithDebounce[watchedConfig](50*time.Millisecond),
	)
	watcher.OnReload(func(cfg watchedConfig) {
		received <- cfg
	})

	if err := watcher.Start(); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := watcher.Stop(); err != nil {
			t.Errorf("watcher.Stop failed: %v", err)
		}
	}()

	// Give the watcher a moment to come up before touching the file.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("name = \"updated\"\nvalue = 42\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-received:
		if cfg.Name != "updated" || cfg.Value != 42 {
			t.Errorf("got %+v, want name=updated, value=42", cfg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for config reload")
	}
}

func TestConfigWatcherUnsubscribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.toml")
	if err := os.WriteFile(path, []byte("value = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	watcher := NewConfigWatcher(
		path,
		loadWatchedConfig,
		newTestLogger(),
		WithDebounce[watchedConfig](20*time.Millisecond),
	)

	kept := make(chan watchedConfig, 4)
	gone := make(chan watchedConfig, 4)
	watcher.OnReload(func(cfg watchedConfig) { kept <- cfg })
	unsubscribe := watcher.OnReload(func(cfg watchedConfig) { gone <- cfg })
	unsubscribe()

	if err := watcher.Start(); err != nil {
		t.Fatal(err)
	}
	defer watcher.Stop()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("value = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-kept:
		if cfg.Value != 2 {
			t.Errorf("got value %d, want 2", cfg.Value)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload")
	}

	select {
	case <-gone:
		t.Error("unsubscribed handler should not be called")
	default:
	}
}
