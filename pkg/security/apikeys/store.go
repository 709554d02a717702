package apikeys

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"mercator-hq/ganymede/pkg/config"
)

var (
	// ErrUnknownKey is returned for a key that is not configured.
	ErrUnknownKey = errors.New("invalid API key")

	// ErrInactiveKey is returned for a key that is configured but disabled.
	ErrInactiveKey = errors.New("API key disabled")
)

// Binding is what an API key grants.
type Binding struct {
	Key          string
	AdapterName  string
	SystemPrompt string
	Active       bool
}

type keyFile struct {
	Keys []config.APIKeyConfig `yaml:"keys"`
}

// Store resolves API keys to bindings. It is safe for concurrent use.
type Store struct {
	path   string
	logger *slog.Logger

	mu     sync.RWMutex
	inline map[string]*Binding
	file   map[string]*Binding

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	once    sync.Once
}

// NewStore builds a store from configuration, reading the key file if one
// is configured.
func NewStore(cfg config.APIKeysConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		path:   cfg.File,
		logger: logger.With("component", "apikeys"),
		inline: toBindings(cfg.Keys),
		stopCh: make(chan struct{}),
	}

	if s.path != "" {
		if err := s.Reload(); err != nil {
			return nil, err
		}
	}

	s.logger.Info("api key store loaded",
		"inline_keys", len(s.inline),
		"file_keys", len(s.file),
		"file", s.path,
	)
	return s, nil
}

func toBindings(entries []config.APIKeyConfig) map[string]*Binding {
	out := make(map[string]*Binding, len(entries))
	for _, e := range entries {
		if e.Key == "" {
			continue
		}
		active := true
		if e.Active != nil {
			active = *e.Active
		}
		out[e.Key] = &Binding{
			Key:          e.Key,
			AdapterName:  e.Adapter,
			SystemPrompt: e.SystemPrompt,
			Active:       active,
		}
	}
	return out
}

// Lookup returns the binding for key.
func (s *Store) Lookup(key string) (*Binding, error) {
	s.mu.RLock()
	b, ok := s.file[key]
	if !ok {
		b, ok = s.inline[key]
	}
	s.mu.RUnlock()

	if !ok {
		return nil, ErrUnknownKey
	}
	if !b.Active {
		return nil, ErrInactiveKey
	}
	return b, nil
}

// Len returns the number of distinct configured keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.file)
	for k := range s.inline {
		if _, dup := s.file[k]; !dup {
			n++
		}
	}
	return n
}

// Reload re-reads the key file. On error the previous file keys are kept.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read api key file %q: %w", s.path, err)
	}

	var kf keyFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return fmt.Errorf("failed to parse api key file %q: %w", s.path, err)
	}

	bindings := toBindings(kf.Keys)
	s.mu.Lock()
	s.file = bindings
	s.mu.Unlock()

	s.logger.Debug("api key file loaded", "file", s.path, "keys", len(bindings))
	return nil
}

// Watch reloads the key file whenever it changes, until ctx is done or the
// store is closed. The parent directory is watched so that editors that
// replace the file on save are handled.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		return fmt.Errorf("api key store has no file to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %q: %w", s.path, err)
	}
	s.watcher = watcher

	go s.watchLoop(ctx)
	s.logger.Info("watching api key file", "file", s.path)
	return nil
}

func (s *Store) watchLoop(ctx context.Context) {
	target := filepath.Clean(s.path)
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create {

				s.logger.Debug("api key file changed", "op", event.Op.String())
				if err := s.Reload(); err != nil {
					s.logger.Error("failed to reload api keys, keeping previous set", "error", err)
				} else {
					s.logger.Info("api keys reloaded", "keys", s.Len())
				}
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("file watcher error", "error", err)

		case <-ctx.Done():
			return

		case <-s.stopCh:
			return
		}
	}
}

// Close stops watching.
func (s *Store) Close() error {
	var err error
	s.once.Do(func() {
		close(s.stopCh)
		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
