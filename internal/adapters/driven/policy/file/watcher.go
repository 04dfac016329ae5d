package file

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

const reloadDebounce = 250 * time.Millisecond

// Watcher reloads policies when a policy file changes.
type Watcher struct {
	loader   *Loader
	onChange func(*domain.PolicyConfig)
	debounce time.Duration
	log      *zap.Logger
}

// NewWatcher creates a watcher that hands every reloaded config to onChange.
func NewWatcher(loader *Loader, onChange func(*domain.PolicyConfig)) *Watcher {
	return &Watcher{
		loader:   loader,
		onChange: onChange,
		debounce: reloadDebounce,
		log:      zap.L().Named("policy"),
	}
}

// Run watches the directories of both policy files until ctx is done.
// Directories are watched instead of files so editors that replace files
// by rename keep triggering reloads.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return eris.Wrap(err, "policy: create watcher")
	}
	defer fsw.Close()

	targets := map[string]struct{}{}
	dirs := map[string]struct{}{}
	for _, p := range []string{w.loader.trustPath, w.loader.contextPath} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return eris.Wrapf(err, "policy: resolve %s", p)
		}
		targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return eris.Wrapf(err, "policy: watch %s", dir)
		}
	}
	if len(dirs) == 0 {
		<-ctx.Done()
		return nil
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			abs, _ := filepath.Abs(ev.Name)
			if _, watched := targets[abs]; !watched {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("policy watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			cfg, err := w.loader.Load(ctx)
			if err != nil {
				w.log.Warn("policy reload fell back to defaults", zap.Error(err))
			}
			w.onChange(cfg)
		}
	}
}
