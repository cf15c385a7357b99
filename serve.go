package route360

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/labstack/echo/v4"
)

const (
	rebuildDebounce = 500 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

// Serve builds the site, then serves the output tree on Config.Addr until ctx
// is cancelled. With watch set, changes below the content, data and static
// directories trigger a rebuild. A failed rebuild is logged and the previous
// output keeps being served.
func (a *App) Serve(ctx context.Context, watch bool) error {
	if _, err := a.Build(ctx); err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	a.setupMiddleware(e)

	if watch {
		w, err := a.watch()
		if err != nil {
			return err
		}
		defer w.Close()
		go a.rebuildLoop(ctx, w)
	}

	errc := make(chan error, 1)
	go func() {
		a.logger.Info("serving", "addr", a.Config.Addr, "dir", a.Config.OutputDir, "watch", watch)
		if err := e.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// watch registers every directory of the watched trees. fsnotify is not
// recursive, so directories created later are added by rebuildLoop.
func (a *App) watch() (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	for _, root := range []string{a.Config.ContentDir, a.Config.DataDir, a.Config.StaticDir} {
		if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
			a.logger.Debug("not watching missing directory", "dir", root)
			continue
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return w.Add(path)
			}
			return nil
		})
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", root, err)
		}
	}
	return w, nil
}

// rebuildLoop debounces watcher events into rebuilds. Rebuilds run on this
// goroutine, so they never overlap.
func (a *App) rebuildLoop(ctx context.Context, w *fsnotify.Watcher) {
	timer := time.NewTimer(rebuildDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.Add(ev.Name); err != nil {
						a.logger.Warn("watch new directory", "dir", ev.Name, "err", err)
					}
				}
			}
			a.logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(rebuildDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			a.logger.Warn("watcher error", "err", err)
		case <-timer.C:
			a.logger.Info("rebuilding")
			if _, err := a.Build(ctx); err != nil {
				a.logger.Error("rebuild failed", "err", err)
			}
		}
	}
}
