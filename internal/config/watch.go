package config

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/user/heater_analyzer_go/internal/log"
)

// Watch monitors the input directory and, when configPath is set, the config
// file. Changes are coalesced: nothing fires until settle has passed without
// a new event, so a file that is still being copied is only seen once it is
// complete. After a quiet period a changed config file is reloaded and passed
// to onConfig; otherwise, if a file ending in ext was created or written,
// onInput receives the last such name. It runs until ctx is cancelled.
//
// A config reload that fails is logged and the previous config stays active.
// onConfig is expected to re-run the batch, so it absorbs pending input changes.
func Watch(ctx context.Context, dir, ext, configPath string, settle time.Duration, onInput func(name string), onConfig func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}
	if configPath != "" {
		if err := watcher.Add(configPath); err != nil {
			return err
		}
	}
	log.Infow("watching for changes", "dir", dir, "config", configPath, "settle", settle)

	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	var (
		pendingInput  string
		pendingConfig bool
	)
	cleanConfig := filepath.Clean(configPath)
	ext = strings.ToLower(ext)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// editors often save via rename, so Create counts as well
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			switch {
			case configPath != "" && filepath.Clean(event.Name) == cleanConfig:
				pendingConfig = true
				_ = watcher.Add(configPath)
			case strings.HasSuffix(strings.ToLower(event.Name), ext):
				pendingInput = event.Name
			default:
				continue
			}
			log.Debugw("change detected", "file", event.Name, "op", event.Op.String())
			timer.Reset(settle)

		case <-timer.C:
			if pendingConfig {
				pendingConfig = false
				cfg, err := Load(configPath)
				if err == nil {
					log.Infow("config reloaded", "path", configPath)
					pendingInput = ""
					onConfig(cfg)
					continue
				}
				log.Errorw("config reload failed, keeping previous config", "path", configPath, "err", err)
			}
			if pendingInput != "" {
				name := pendingInput
				pendingInput = ""
				onInput(name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorw("watcher error", "err", err)
		}
	}
}
