package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange with the re-parsed file every time path is written or
// recreated. It blocks until ctx is cancelled. The parent directory is watched
// so editors that replace the file on save are handled.
func Watch(ctx context.Context, path string, onChange func(*FileConfig)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("config: watch %s: %w", path, err)
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fc, err := LoadFile(path)
			if err != nil {
				log.Printf("Ignoring config change: %v", err)
				continue
			}
			log.Printf("Reloaded config file %s", path)
			onChange(fc)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("Config watcher error: %v", err)
		}
	}
}
