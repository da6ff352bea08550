package http

import (
	"sync"

	"github.com/Chinmay1190/stepup-storefront/internal/checkout"
	"github.com/Chinmay1190/stepup-storefront/internal/identity"
	"github.com/Chinmay1190/stepup-storefront/internal/selection"
)

// Session bundles the state owned by one browser session: its identity
// provider session, its selection sets and, while a checkout flow is active,
// the orchestrator. The checkout draft lives only inside the orchestrator
// and dies with it. Identity is session-scoped: signing in here never
// authenticates any other session.
type Session struct {
	ID       string
	Identity identity.Provider
	Wishlist *selection.Wishlist
	Cart     *selection.Cart

	mu       sync.Mutex
	checkout *checkout.Orchestrator
}

// CurrentIdentity returns this session's signed-in identity, or nil.
func (s *Session) CurrentIdentity() *identity.Identity {
	if s.Identity == nil {
		return nil
	}
	return s.Identity.Current()
}

// Checkout returns the active orchestrator, or nil when no flow is open.
func (s *Session) Checkout() *checkout.Orchestrator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkout
}

func (s *Session) SetCheckout(o *checkout.Orchestrator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkout = o
}

func (s *Session) Close() {
	s.Wishlist.Close()
	s.Cart.Close()
}

// SessionStore hands out sessions by id, constructing them on first use via
// the injected factory.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	factory  func(id string) *Session
}

func NewSessionStore(factory func(id string) *Session) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		factory:  factory,
	}
}

func (st *SessionStore) Get(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	if sess, ok := st.sessions[id]; ok {
		return sess
	}
	sess := st.factory(id)
	st.sessions[id] = sess
	return sess
}
