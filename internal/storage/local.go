// Package storage keeps the small amount of client state that outlives a
// process: the theme preference and the session cookies.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// Local is a string key/value file, the terminal counterpart of browser
// local storage. Every write is flushed to disk. An empty path keeps the
// values in memory only.
type Local struct {
	mu     sync.RWMutex
	path   string
	values map[string]string
}

func Open(path string) (*Local, error) {
	l := &Local{path: path, values: make(map[string]string)}
	if path == "" {
		return l, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, errors.Wrap(err, "read local storage")
	}
	if len(data) == 0 {
		return l, nil
	}
	if err := json.Unmarshal(data, &l.values); err != nil {
		return nil, errors.Wrapf(err, "parse local storage %s", path)
	}
	if l.values == nil {
		l.values = make(map[string]string)
	}
	return l, nil
}

func NewMemory() *Local {
	l, _ := Open("")
	return l
}

func (l *Local) Get(key string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.values[key]
	return v, ok
}

func (l *Local) Set(key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values[key] = value
	return l.flush()
}

func (l *Local) Delete(key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.values[key]; !ok {
		return nil
	}
	delete(l.values, key)
	return l.flush()
}

// flush must be called with l.mu held.
func (l *Local) flush() error {
	if l.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o700); err != nil {
		return errors.Wrap(err, "create local storage directory")
	}
	data, err := json.MarshalIndent(l.values, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal local storage")
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "write local storage")
	}
	return errors.Wrap(os.Rename(tmp, l.path), "replace local storage")
}
