package main

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pterm/pterm"
)

// burstDelay is how long the watcher waits after the last event before
// laying out again. Editors often emit several events for one save.
const burstDelay = 16 * time.Millisecond

// watcher re-renders when the input file changes.
type watcher struct {
	path   string
	fw     *fsnotify.Watcher
	render func()
}

func newWatcher(path string, render func()) (*watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors that save by renaming replace the file.
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return &watcher{path: abs, fw: fw, render: render}, nil
}

func (w *watcher) close() {
	_ = w.fw.Close()
}

func (w *watcher) run(ctx context.Context) error {
	w.render()

	burst := time.NewTimer(time.Hour)
	burst.Stop()
	defer burst.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fw.Events:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op == fsnotify.Chmod {
				continue
			}
			burst.Reset(burstDelay)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			pterm.Warning.Println(err)
		case <-burst.C:
			pterm.Info.Printf("%s changed\n", filepath.Base(w.path))
			w.render()
		}
	}
}
