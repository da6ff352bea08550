package identity

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

type account struct {
	id       string
	email    string
	password string
	fullName string
	verified bool
}

// Registry is the shared account directory behind MemoryProvider sessions.
// Failure messages match the hosted provider's so MapAuthError buckets them
// identically.
type Registry struct {
	mu       sync.Mutex
	accounts map[string]*account // keyed by email
}

func NewRegistry() *Registry {
	return &Registry{accounts: make(map[string]*account)}
}

// Session returns a Provider scoped to one browser session. Sessions share
// the registry's accounts; each holds its own signed-in identity, so one
// session signing in never authenticates another.
func (r *Registry) Session() *MemoryProvider {
	return &MemoryProvider{
		registry:  r,
		listeners: make(map[int]func(*Identity)),
	}
}

func (r *Registry) authenticate(email, password string) (*Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[email]
	if !ok || acc.password != password {
		return nil, errors.New("Invalid login credentials")
	}
	if !acc.verified {
		return nil, errors.New("Email not confirmed")
	}
	return &Identity{ID: acc.id, Email: acc.email}, nil
}

func (r *Registry) register(email, password, fullName string) (*Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[email]; ok {
		return nil, errors.New("User already registered")
	}
	acc := &account{
		id:       uuid.New().String(),
		email:    email,
		password: password,
		fullName: fullName,
		verified: true,
	}
	r.accounts[email] = acc
	return &Identity{ID: acc.id, Email: acc.email}, nil
}

// MemoryProvider is an in-process Provider for one session, for tests and
// single-binary runs. Accounts live in the shared Registry; the signed-in
// identity and its change listeners are session-local.
type MemoryProvider struct {
	registry *Registry

	mu        sync.Mutex
	current   *Identity
	listeners map[int]func(*Identity)
	nextID    int
}

// NewMemoryProvider returns a session backed by its own private registry,
// for single-session use.
func NewMemoryProvider() *MemoryProvider {
	return NewRegistry().Session()
}

func (p *MemoryProvider) Current() *Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *MemoryProvider) OnChange(fn func(*Identity)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

func (p *MemoryProvider) SignIn(_ context.Context, email, password string) (*Identity, error) {
	ident, err := p.registry.authenticate(email, password)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.current = ident
	fns := p.snapshotListeners()
	p.mu.Unlock()

	notify(fns, ident)
	return ident, nil
}

func (p *MemoryProvider) SignUp(_ context.Context, email, password, fullName string) (*Identity, error) {
	return p.registry.register(email, password, fullName)
}

func (p *MemoryProvider) SignOut(_ context.Context) error {
	p.mu.Lock()
	if p.current == nil {
		p.mu.Unlock()
		return ErrNotSignedIn
	}
	p.current = nil
	fns := p.snapshotListeners()
	p.mu.Unlock()

	notify(fns, nil)
	return nil
}

func (p *MemoryProvider) snapshotListeners() []func(*Identity) {
	fns := make([]func(*Identity), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	return fns
}

func notify(fns []func(*Identity), ident *Identity) {
	for _, fn := range fns {
		fn(ident)
	}
}
