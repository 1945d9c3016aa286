// Package devserver keeps a loaded site current while its sources are edited.
//
// The Watcher translates file system events into the cheapest lifecycle transition that
// covers them and runs those transitions one at a time.
package devserver

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/plugin"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

// Reloader runs site transitions. *site.Controller implements it.
type Reloader interface {
	Reload(ctx context.Context, s *site.Site) (*site.Site, error)
	ReloadPlugin(ctx context.Context, s *site.Site, id plugin.Identifier) (*site.Site, error)
}

// Config tunes a Watcher.
type Config struct {
	// QuietWindow is how long the file system must stay quiet before reloading.
	QuietWindow time.Duration
	// MaxDelay bounds how long a steady stream of changes can postpone a reload.
	MaxDelay time.Duration

	Logger *slog.Logger

	// OnReload receives every site produced by a successful transition.
	OnReload func(*site.Site)
	// OnError receives every failed transition. The previous site stays current.
	OnError func(error)
}

// Watcher watches the sources of a site and reloads it on change.
type Watcher struct {
	reloader Reloader
	cfg      Config
	fsw      *fsnotify.Watcher

	mu      sync.RWMutex
	current *site.Site
	watched map[string]struct{}

	readyOnce sync.Once
	ready     chan struct{}
}

// New creates a Watcher starting from initial.
func New(reloader Reloader, initial *site.Site, cfg Config) (*Watcher, error) {
	if reloader == nil {
		return nil, ferrors.ValidationError("reloader is required").Build()
	}
	if initial == nil || initial.Props == nil {
		return nil, ferrors.ValidationError("initial site is required").Build()
	}
	if cfg.QuietWindow <= 0 {
		cfg.QuietWindow = 200 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 2 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.RuntimeError("failed to create file watcher").WithCause(err).Build()
	}
	return &Watcher{
		reloader: reloader,
		cfg:      cfg,
		fsw:      fsw,
		current:  initial,
		watched:  make(map[string]struct{}),
		ready:    make(chan struct{}),
	}, nil
}

// Current returns the most recent successfully loaded site.
func (w *Watcher) Current() *site.Site {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Ready is closed once Run has registered its watches.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is done. Transitions run on the calling goroutine, so they never overlap.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.cfg.Logger.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	w.syncWatches(w.Current())
	w.readyOnce.Do(func() { close(w.ready) })
	w.cfg.Logger.Info("Watching site for changes", logfields.SiteDir(w.Current().Props.SiteDir))

	quietTimer := stoppedTimer()
	maxTimer := stoppedTimer()
	var (
		quietC  <-chan time.Time
		maxC    <-chan time.Time
		pending batch
	)

	flush := func() {
		w.apply(ctx, pending)
		pending = batch{}
		quietC, maxC = nil, nil
	}

	for {
		select {
		case <-ctx.Done():
			quietTimer.Stop()
			maxTimer.Stop()
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Op.Has(fsnotify.Create) && isDir(ev.Name) {
				w.syncWatches(w.Current())
			}
			first := pending.empty()
			if !pending.add(classify(w.Current(), ev.Name)) {
				continue
			}
			w.cfg.Logger.Debug("Site source changed", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			resetTimer(quietTimer, w.cfg.QuietWindow)
			quietC = quietTimer.C
			if first {
				resetTimer(maxTimer, w.cfg.MaxDelay)
				maxC = maxTimer.C
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.cfg.Logger.Error("File watcher error", logfields.Error(err))

		case <-quietC:
			flush()
		case <-maxC:
			flush()
		}
	}
}

// apply runs the transitions for b. A full reload supersedes plugin reloads. Plugin
// reloads chain on each other's result; the last good site is kept on failure.
func (w *Watcher) apply(ctx context.Context, b batch) {
	if b.empty() {
		return
	}
	prev := w.Current()
	next := prev

	var err error
	if b.full {
		w.cfg.Logger.Info("Reloading site", slog.Int("changes", b.paths))
		var s *site.Site
		if s, err = w.reloader.Reload(ctx, prev); err == nil {
			next = s
		}
	} else {
		for _, id := range b.plugins {
			w.cfg.Logger.Info("Reloading plugin", logfields.Plugin(id.String()))
			s, rerr := w.reloader.ReloadPlugin(ctx, next, id)
			if rerr != nil {
				err = rerr
				break
			}
			next = s
		}
	}

	if next != prev {
		w.mu.Lock()
		w.current = next
		w.mu.Unlock()
		w.syncWatches(next)
		if w.cfg.OnReload != nil {
			w.cfg.OnReload(next)
		}
	}
	if err != nil {
		w.cfg.Logger.Error("Site reload failed, keeping previous site",
			slog.String("category", string(ferrors.GetCategory(err))),
			logfields.Error(err))
		if w.cfg.OnError != nil {
			w.cfg.OnError(err)
		}
	}
}

// syncWatches watches every directory below the roots of s and drops stale watches.
func (w *Watcher) syncWatches(s *site.Site) {
	want := make(map[string]struct{})
	for _, root := range watchRoots(s) {
		for _, dir := range watchDirs(root) {
			want[dir] = struct{}{}
		}
	}

	for dir := range want {
		if _, ok := w.watched[dir]; ok {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			w.cfg.Logger.Warn("Unable to watch directory", logfields.Path(dir), logfields.Error(err))
			continue
		}
		w.watched[dir] = struct{}{}
	}
	for dir := range w.watched {
		if _, ok := want[dir]; ok {
			continue
		}
		_ = w.fsw.Remove(dir)
		delete(w.watched, dir)
	}
}

// watchDirs expands a root into directories to watch: the directory itself and, for
// recursive roots, its subdirectories. A file is watched through its parent; a missing
// path through its closest existing ancestor.
func watchDirs(root watchRoot) []string {
	info, err := os.Stat(root.path)
	if err != nil {
		parent := filepath.Dir(root.path)
		if parent == root.path {
			return nil
		}
		return watchDirs(watchRoot{path: parent})
	}
	if !info.IsDir() {
		return []string{filepath.Dir(root.path)}
	}
	if !root.recursive {
		return []string{root.path}
	}

	var dirs []string
	_ = filepath.WalkDir(root.path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root.path && (d.Name() == "node_modules" || strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		dirs = append(dirs, p)
		return nil
	})
	return dirs
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func stoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	t.Stop()
	return t
}

func resetTimer(t *time.Timer, after time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(after)
}
