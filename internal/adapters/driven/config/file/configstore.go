package file

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/recipedelight/delight/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore backs the delight settings with a config.toml file.
//
// Tables are addressed with dotted keys: the file
//
//	[assistant]
//	api_key = "..."
//	model = "gemini-2.5-flash"
//
//	[scheduler]
//	enabled = true
//
// is read through "assistant.api_key", "assistant.model" and
// "scheduler.enabled". Writes keep the same table layout on disk.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	values   map[string]any
}

// NewConfigStore opens config.toml inside configDir, creating the directory
// when needed. An empty configDir means ~/.delight. A missing file is an
// empty config; an unreadable one is an error.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".delight")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		values:   make(map[string]any),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the raw value under a dotted key such as "catalog.burst".
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.values[key]
	return val, ok
}

// GetString returns a string setting, e.g. "assistant.model", or "" when
// the key is missing or holds another type.
func (s *ConfigStore) GetString(key string) string {
	str, _ := s.lookup(key).(string)
	return str
}

// GetInt returns an integer setting such as "catalog.burst". The decoder
// yields int64; values set in-process may be plain int.
func (s *ConfigStore) GetInt(key string) int {
	switch v := s.lookup(key).(type) {
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// GetBool returns a switch such as "scheduler.enabled". Missing means false;
// callers supply their own defaults.
func (s *ConfigStore) GetBool(key string) bool {
	b, _ := s.lookup(key).(bool)
	return b
}

// GetFloat returns a numeric setting. Whole numbers are widened, so
// "catalog.requests_per_second = 5" reads as 5.0.
func (s *ConfigStore) GetFloat(key string) float64 {
	switch v := s.lookup(key).(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

func (s *ConfigStore) lookup(key string) any {
	val, _ := s.Get(key)
	return val
}

// Set stores one setting and rewrites the file.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return s.write()
}

// Save rewrites the file from the values held in memory.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write()
}

// write must be called with mu held.
func (s *ConfigStore) write() error {
	data, err := toml.Marshal(nestKeys(s.values))
	if err != nil {
		return err
	}

	// The file may hold the assistant API key.
	return os.WriteFile(s.filePath, data, 0600)
}

// Load replaces the in-memory settings with the file's contents. The
// watcher calls it after every edit to config.toml.
func (s *ConfigStore) Load() error {
	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		data, err = nil, nil
	}
	if err != nil {
		return err
	}

	tables := make(map[string]any)
	if err := toml.Unmarshal(data, &tables); err != nil {
		return err
	}

	values := make(map[string]any)
	flattenInto(values, tables, "")

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

// flattenInto copies tables into dst under dotted keys:
// {"assistant": {"model": "x"}} becomes {"assistant.model": "x"}.
func flattenInto(dst, tables map[string]any, prefix string) {
	for key, value := range tables {
		if prefix != "" {
			key = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			flattenInto(dst, nested, key)
			continue
		}
		dst[key] = value
	}
}

// nestKeys is the inverse of flattenInto. A key whose parent is already a
// plain value stays a quoted top-level key, so nothing is dropped.
func nestKeys(values map[string]any) map[string]any {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	// Parents sort before their children.
	sort.Strings(keys)

	root := make(map[string]any)
	for _, key := range keys {
		value := values[key]
		parts := strings.Split(key, ".")
		table := root
		placed := true
		for _, part := range parts[:len(parts)-1] {
			next, exists := table[part]
			if !exists {
				child := make(map[string]any)
				table[part] = child
				table = child
				continue
			}
			child, ok := next.(map[string]any)
			if !ok {
				placed = false
				break
			}
			table = child
		}
		if !placed {
			root[key] = value
			continue
		}
		table[parts[len(parts)-1]] = value
	}
	return root
}

// Path returns the location of config.toml.
func (s *ConfigStore) Path() string {
	return s.filePath
}
