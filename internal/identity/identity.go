// Package identity supplies the authenticated principal for the session,
// or none. Checkout and order history only branch on presence; the actual
// authentication protocol lives outside this client.
package identity

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/xenking/storefront-client/pkg/kvstore"
)

// sessionKey is the kvstore key holding the signed-in principal.
const sessionKey = "storefront_session"

// Principal is an authenticated caller.
type Principal struct {
	Name string
}

// Token returns the bearer token presented on authenticated calls.
func (p Principal) Token() string {
	return p.Name
}

// Provider reports the current principal, if any.
type Provider interface {
	Current() (Principal, bool)
}

// SessionProvider keeps the principal in the session key-value store so a
// sign-in survives client restarts. A corrupt or unreadable session entry
// degrades to signed-out, mirroring the cart's storage policy.
type SessionProvider struct {
	mu sync.Mutex
	kv kvstore.Store
	lg *zap.Logger
}

// NewSessionProvider restores any stored session.
func NewSessionProvider(kv kvstore.Store, lg *zap.Logger) *SessionProvider {
	return &SessionProvider{kv: kv, lg: lg}
}

// Current returns the signed-in principal, or false when signed out.
func (s *SessionProvider) Current() (Principal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.kv.Get(sessionKey)
	if err != nil {
		if err != kvstore.ErrNotFound {
			s.lg.Warn("Failed to read session", zap.Error(err))
		}
		return Principal{}, false
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return Principal{}, false
	}
	return Principal{Name: name}, true
}

// Login records name as the session principal.
func (s *SessionProvider) Login(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Set(sessionKey, []byte(name))
}

// Logout clears the session principal.
func (s *SessionProvider) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(sessionKey)
}

// Static is a Provider with a fixed answer, for tests.
type Static struct {
	Principal Principal
	Present   bool
}

func (s Static) Current() (Principal, bool) {
	return s.Principal, s.Present
}
