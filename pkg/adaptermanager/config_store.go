package adaptermanager

import (
	"log/slog"
	"sort"

	"mercator-hq/ganymede/pkg/config"
)

// ConfigStore is the immutable set of adapter configurations keyed by name.
type ConfigStore struct {
	configs map[string]config.AdapterConfig
	names   []string
}

// LoadConfigStore builds a store from configuration entries. Entries without
// a name are skipped. When a name repeats, the later entry wins; both cases
// are logged as warnings.
func LoadConfigStore(entries []config.AdapterConfig, logger *slog.Logger) *ConfigStore {
	if logger == nil {
		logger = slog.Default()
	}

	s := &ConfigStore{configs: make(map[string]config.AdapterConfig, len(entries))}
	for i, entry := range entries {
		if entry.Name == "" {
			logger.Warn("skipping adapter configuration without a name", "index", i)
			continue
		}
		if _, dup := s.configs[entry.Name]; dup {
			logger.Warn("duplicate adapter configuration, later entry wins",
				"adapter", entry.Name,
				"index", i,
			)
		}
		s.configs[entry.Name] = entry
	}

	s.names = make([]string, 0, len(s.configs))
	for name := range s.configs {
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)

	logger.Info("loaded adapter configurations", "count", len(s.configs))
	return s
}

// Get returns the configuration for name.
func (s *ConfigStore) Get(name string) (config.AdapterConfig, bool) {
	cfg, ok := s.configs[name]
	return cfg, ok
}

// Names returns all configured adapter names, sorted.
func (s *ConfigStore) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of configured adapters.
func (s *ConfigStore) Len() int {
	return len(s.configs)
}
