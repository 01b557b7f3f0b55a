package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Editors often write files in several events in quick succession; wait for
// the file to settle before reloading.
const reloadDebounce = 300 * time.Millisecond

// WatchCityFile reloads the city table whenever the file changes, debounced.
// The watcher runs until the returned stop function is called. A reload
// failure keeps the previous table and is only logged.
func WatchCityFile(path string, table *CityTable, log zerolog.Logger) (func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: editors that replace the file by
	// rename would otherwise detach the watch.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		var pending *time.Timer
		reload := func() {
			if err := table.LoadFile(path); err != nil {
				log.Error().Err(err).Str("path", path).Msg("city table reload failed, keeping previous table")
				return
			}
			log.Info().Str("path", path).Int("cities", table.Len()).Msg("city table reloaded")
		}
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != filepath.Base(path) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if pending != nil {
					pending.Stop()
				}
				pending = time.AfterFunc(reloadDebounce, reload)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Error().Err(err).Msg("city file watch error")
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		w.Close()
	}, nil
}
