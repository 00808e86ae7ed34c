package tui

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounce = 200 * time.Millisecond

// watched reports whether a change to name should trigger a reload.
func watched(name string) bool {
	switch filepath.Ext(name) {
	case ".md", ".yaml", ".toml":
		return true
	}
	return false
}

// StartWatcher watches the data directory and calls notify, debounced, after
// curriculum files change. The returned func stops watching.
func StartWatcher(root string, notify func(), logger *zap.Logger) (func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Walk and add all directories
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			// Skip hidden dirs (like .git)
			if strings.HasPrefix(info.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})

	go func() {
		var debounceTimer *time.Timer

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				// A new node directory needs its own watch.
				if event.Op&fsnotify.Create != 0 {
					info, err := os.Stat(event.Name)
					if err == nil && info.IsDir() && !strings.HasPrefix(info.Name(), ".") {
						if err := watcher.Add(event.Name); err != nil {
							logger.Warn("watch directory", zap.String("path", event.Name), zap.Error(err))
						}
						continue
					}
				}

				if !watched(event.Name) {
					continue
				}

				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounce, notify)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("file watcher", zap.Error(err))

			case <-done:
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				return
			}
		}
	}()

	cleanup := func() {
		close(done)
		watcher.Close()
	}

	return cleanup, nil
}

// WatchProgram starts a watcher that sends FileChangedMsg to program.
func WatchProgram(root string, program *tea.Program, logger *zap.Logger) (func(), error) {
	return StartWatcher(root, func() { program.Send(FileChangedMsg{}) }, logger)
}
