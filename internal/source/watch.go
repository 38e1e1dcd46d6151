package source

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// editors tend to write a file in several steps
const settleDelay = 150 * time.Millisecond

// Watcher reports local models whose files changed on disk.
type Watcher struct {
	watcher *fsnotify.Watcher
	log     logrus.FieldLogger
	changed func(Model)

	files map[string][]Model // cleaned path -> models reading it
	dirs  map[string][]Model // directory -> models using its mtllib files

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewWatcher watches the directories of every local OBJ and MTL in models.
// Remote models are ignored.
func NewWatcher(models []Model, log logrus.FieldLogger, changed func(Model)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher: fw,
		log:     log,
		changed: changed,
		files:   map[string][]Model{},
		dirs:    map[string][]Model{},
		timers:  map[string]*time.Timer{},
	}

	watched := map[string]bool{}
	add := func(uri string) error {
		p, err := filepath.Abs(LocalPath(uri))
		if err != nil {
			return err
		}
		dir := filepath.Dir(p)
		if !watched[dir] {
			if err := fw.Add(dir); err != nil {
				return err
			}
			watched[dir] = true
		}
		return nil
	}

	for _, m := range models {
		if m.OBJ == "" || IsRemote(m.OBJ) {
			continue
		}
		if err := add(m.OBJ); err != nil {
			fw.Close()
			return nil, err
		}
		obj, _ := filepath.Abs(LocalPath(m.OBJ))
		w.files[obj] = append(w.files[obj], m)

		if m.MTL == "" {
			dir := filepath.Dir(obj)
			w.dirs[dir] = append(w.dirs[dir], m)
			continue
		}
		if IsRemote(m.MTL) {
			continue
		}
		if err := add(m.MTL); err != nil {
			fw.Close()
			return nil, err
		}
		mtl, _ := filepath.Abs(LocalPath(m.MTL))
		w.files[mtl] = append(w.files[mtl], m)
	}
	return w, nil
}

// Run delivers change notifications until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			for _, m := range w.affected(ev.Name) {
				w.schedule(m)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("File watcher error")
		}
	}
}

func (w *Watcher) affected(name string) []Model {
	p, err := filepath.Abs(name)
	if err != nil {
		return nil
	}
	models := w.files[p]
	if strings.EqualFold(filepath.Ext(p), ".mtl") {
		models = append(models[:len(models):len(models)], w.dirs[filepath.Dir(p)]...)
	}
	return models
}

func (w *Watcher) schedule(m Model) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[m.key()]; ok {
		t.Reset(settleDelay)
		return
	}
	w.timers[m.key()] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.timers, m.key())
		w.mu.Unlock()

		w.log.WithField("model", m.key()).Debug("Model changed on disk")
		w.changed(m)
	})
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}
