package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watchFile calls onChange each time path is written or recreated, until ctx
// is done or onChange fails.
func watchFile(ctx context.Context, path string, onChange func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return &exitError{code: ExitIOError, err: fmt.Errorf("start watcher: %w", err)}
	}
	defer func() { _ = w.Close() }()

	// Editors often save by renaming a new file over the old one, which drops
	// a watch on the file itself. Watch the directory instead.
	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return &exitError{code: ExitIOError, err: fmt.Errorf("watch %s: %w", path, err)}
	}
	logger().Infof("watching %s", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			logger().Debugf("%s changed (%s)", path, ev.Op)
			if err := onChange(); err != nil {
				return err
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger().Warningf("watch error: %s", err)
		}
	}
}
