package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSettle = 300 * time.Millisecond

type watchRun struct {
	inputs  chan string
	configs chan *Config
	cancel  context.CancelFunc
	done    chan error
}

func startWatch(t *testing.T, dir, configPath string, onInput func(string)) *watchRun {
	t.Helper()
	w := &watchRun{
		inputs:  make(chan string, 16),
		configs: make(chan *Config, 16),
		done:    make(chan error, 1),
	}
	if onInput == nil {
		onInput = func(name string) { w.inputs <- name }
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	go func() {
		w.done <- Watch(ctx, dir, ".txt", configPath, testSettle, onInput, func(cfg *Config) { w.configs <- cfg })
	}()
	// give the watcher time to register
	time.Sleep(200 * time.Millisecond)
	t.Cleanup(func() {
		w.cancel()
		select {
		case err := <-w.done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watch did not stop")
		}
	})
	return w
}

func TestWatchReportsInputAndConfigChanges(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "heater.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("input:\n  dir: /a\n"), 0o644))
	w := startWatch(t, dir, cfgPath, nil)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.csv"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "run_95C.txt"), []byte("x"), 0o644))
	select {
	case name := <-w.inputs:
		assert.Equal(t, "run_95C.txt", filepath.Base(name))
	case <-time.After(5 * time.Second):
		t.Fatal("no input event")
	}

	require.NoError(t, os.WriteFile(cfgPath, []byte("input:\n  dir: /b\n"), 0o644))
	select {
	case cfg := <-w.configs:
		assert.Equal(t, "/b", cfg.Input.Dir)
	case <-time.After(5 * time.Second):
		t.Fatal("no config reload")
	}
}

func TestWatchWaitsForFileToSettle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "TSC_12345678901_95C.txt")
	const full = "header\n1,2,3,4,0\n1,2,5,4,100\nfooter\n"

	seen := make(chan string, 16)
	startWatch(t, dir, "", func(name string) {
		data, err := os.ReadFile(name)
		if err != nil {
			seen <- ""
			return
		}
		seen <- string(data)
	})

	f, err := os.Create(path)
	require.NoError(t, err)
	_, err = f.WriteString(full[:12])
	require.NoError(t, err)
	time.Sleep(testSettle / 3)
	_, err = f.WriteString(full[12:])
	require.NoError(t, err)
	require.NoError(t, f.Close())

	select {
	case content := <-seen:
		assert.Equal(t, full, content)
	case <-time.After(5 * time.Second):
		t.Fatal("no input event")
	}

	// the burst of create and write events fires once
	select {
	case <-seen:
		t.Fatal("input fired more than once for one copy")
	case <-time.After(3 * testSettle):
	}
}

func TestWatchKeepsRunningOnBadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "heater.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("input:\n  dir: /a\n"), 0o644))
	w := startWatch(t, dir, cfgPath, nil)

	require.NoError(t, os.WriteFile(cfgPath, []byte("input: [not, a, map\n"), 0o644))
	select {
	case <-w.configs:
		t.Fatal("invalid config was applied")
	case <-time.After(3 * testSettle):
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "run_95C.txt"), []byte("x"), 0o644))
	select {
	case name := <-w.inputs:
		assert.Equal(t, "run_95C.txt", filepath.Base(name))
	case <-time.After(5 * time.Second):
		t.Fatal("watcher stopped after a bad config")
	}
}
