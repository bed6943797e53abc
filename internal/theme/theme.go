// Package theme persists and applies the light/dark display mode.
package theme

import (
	"sync"

	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/pkg/errors"
)

const StorageKey = "app-theme"

type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Applier renders a mode, e.g. by swapping terminal styles.
type Applier interface {
	Apply(domain.ThemeMode)
}

type ApplierFunc func(domain.ThemeMode)

func (f ApplierFunc) Apply(m domain.ThemeMode) {
	f(m)
}

type Store struct {
	mu       sync.Mutex
	kv       KV
	mode     domain.ThemeMode
	appliers []Applier
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv, mode: domain.ThemeLight}
}

// Register adds an applier and applies the current mode to it right away.
func (s *Store) Register(a Applier) {
	s.mu.Lock()
	s.appliers = append(s.appliers, a)
	mode := s.mode
	s.mu.Unlock()
	a.Apply(mode)
}

// Initialize loads the persisted mode. Missing or unknown values mean light.
func (s *Store) Initialize() domain.ThemeMode {
	v, _ := s.kv.Get(StorageKey)
	mode := domain.ParseThemeMode(v)
	s.apply(s.swap(func(domain.ThemeMode) domain.ThemeMode { return mode }))
	return mode
}

// Toggle flips the mode, applies it and persists it. The new mode is
// applied even when persisting fails.
func (s *Store) Toggle() (domain.ThemeMode, error) {
	mode := s.swap(domain.ThemeMode.Toggle)
	s.apply(mode)
	if err := s.kv.Set(StorageKey, string(mode)); err != nil {
		return mode, errors.Wrap(err, "persist theme")
	}
	return mode, nil
}

func (s *Store) Mode() domain.ThemeMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Store) swap(next func(domain.ThemeMode) domain.ThemeMode) domain.ThemeMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = next(s.mode)
	return s.mode
}

func (s *Store) apply(mode domain.ThemeMode) {
	s.mu.Lock()
	appliers := append([]Applier(nil), s.appliers...)
	s.mu.Unlock()

	for _, a := range appliers {
		a.Apply(mode)
	}
}
