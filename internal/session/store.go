// Package session holds the signed-in principal and the shopper's cart for
// the lifetime of the client.
package session

import (
	"context"
	"sync"

	"github.com/fjod/nayra_storefront/internal/api"
	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/fjod/nayra_storefront/internal/nav"
	"go.uber.org/zap"
)

type ProfileFetcher interface {
	Profile(ctx context.Context, role domain.Role) (*domain.Principal, error)
}

// Store is safe for concurrent use. Writers replace state wholesale; the
// cart summary is always derived from the lines it was stored with.
type Store struct {
	mu         sync.RWMutex
	principal  *domain.Principal
	lines      []domain.CartLine
	summary    domain.CartSummary
	generation uint64
	subs       []chan struct{}

	navigator nav.Navigator
	logger    *zap.Logger
}

func NewStore(navigator nav.Navigator, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{navigator: navigator, logger: logger}
}

// Bootstrap restores the session from the backend cookie. A rejected
// session is not an error: the store just stays anonymous.
func (s *Store) Bootstrap(ctx context.Context, fetcher ProfileFetcher) *domain.Principal {
	p, err := fetcher.Profile(ctx, domain.RoleShopper)
	if err != nil {
		if api.IsUnauthorized(err) {
			s.logger.Debug("no active session")
		} else {
			s.logger.Warn("session bootstrap failed", zap.Error(err))
		}
		return nil
	}
	s.SetPrincipal(p)
	return s.Principal()
}

func (s *Store) SetPrincipal(p *domain.Principal) {
	s.mu.Lock()
	if p == nil {
		s.principal = nil
	} else {
		cp := *p
		s.principal = &cp
	}
	s.generation++
	s.mu.Unlock()
	s.notify()
}

// ClearPrincipal signs out locally: principal and cart are dropped and the
// client is sent to the login surface.
func (s *Store) ClearPrincipal() {
	s.mu.Lock()
	s.principal = nil
	s.lines = nil
	s.summary = domain.Summarize(nil)
	s.generation++
	s.mu.Unlock()
	s.notify()

	if s.navigator != nil {
		s.navigator.Navigate(nav.Login)
	}
}

func (s *Store) SetCartLines(lines []domain.CartLine) {
	cp := make([]domain.CartLine, len(lines))
	copy(cp, lines)
	summary := domain.Summarize(cp)

	s.mu.Lock()
	s.lines = cp
	s.summary = summary
	s.mu.Unlock()
	s.notify()
}

// Principal returns a copy of the signed-in principal, or nil.
func (s *Store) Principal() *domain.Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return nil
	}
	cp := *s.principal
	return &cp
}

func (s *Store) Role() domain.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return domain.RoleAnonymous
	}
	return s.principal.Role
}

func (s *Store) IsAuthenticated() bool {
	return s.Role() != domain.RoleAnonymous
}

func (s *Store) CartLines() []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) CartSummary() domain.CartSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// Generation changes every time the principal does.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Subscribe returns a channel that receives a value after every change.
// Notifications are coalesced: a slow reader sees at most one pending.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
