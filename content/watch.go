package content

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes below a content directory. Bursts of events
// (an editor saving, a git pull) are coalesced into one callback.
type Watcher struct {
	dir      string
	debounce time.Duration
	fsw      *fsnotify.Watcher
	onError  func(error)
}

// NewWatcher creates a watcher for dir and every directory below it.
func NewWatcher(dir string, debounce time.Duration, onError func(error)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	if onError == nil {
		onError = func(error) {}
	}
	w := &Watcher{dir: dir, debounce: debounce, fsw: fsw, onError: onError}
	if err := w.addTree(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(p)
		}
		return nil
	})
}

// Run calls changed after every settled burst of changes until ctx is done.
// It closes the underlying watcher on return.
func (w *Watcher) Run(ctx context.Context, changed func()) {
	defer w.fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						w.onError(err)
					}
				}
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		case <-fire:
			fire = nil
			changed()
		}
	}
}
