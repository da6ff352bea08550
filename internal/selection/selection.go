// Package selection maintains a user's selection sets (wishlist, cart lines)
// under two mutually exclusive persistence modes: anonymous sessions live in
// the durable local store, authenticated sessions in the remote gateway with
// realtime reconciliation. Remote failures never propagate to callers; the
// only observable symptom is an optimistic mutation snapping back.
package selection

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Chinmay1190/stepup-storefront/internal/identity"
	"github.com/Chinmay1190/stepup-storefront/internal/localstore"
	"github.com/Chinmay1190/stepup-storefront/internal/metrics"
	"github.com/Chinmay1190/stepup-storefront/internal/realtime"
)

const remoteTimeout = 5 * time.Second

// RemoteSet is the gateway side of a selection set, defined here by the
// consumer. A nil RemoteSet runs the set local-only in both modes.
type RemoteSet[K comparable, V any] interface {
	Fetch(ctx context.Context, ownerID string) ([]V, error)
	Insert(ctx context.Context, ownerID string, item V) error
	Delete(ctx context.Context, ownerID string, key K) error
}

type Options[K comparable, V any] struct {
	Name     string // metrics label and log prefix
	KeyOf    func(V) K
	Remote   RemoteSet[K, V] // nil = local-only
	Local    localstore.Store
	CacheKey string
	Feed     realtime.Feed // nil = no realtime reconciliation
	Table    string
	Identity identity.Provider
	Metrics  *metrics.StorefrontMetrics // nil ok
}

// Set is the membership synchronizer. All exported methods are safe for
// concurrent use; mutations apply to in-memory state before any remote I/O.
type Set[K comparable, V any] struct {
	opts Options[K, V]

	mu         sync.Mutex
	items      map[K]V
	seq        map[K]uint64 // per-key request versions, reset on every full replace
	owner      *identity.Identity
	cancelFeed func()

	sfg           singleflight.Group
	unsubIdentity func()
}

func NewSet[K comparable, V any](opts Options[K, V]) *Set[K, V] {
	s := &Set[K, V]{
		opts:  opts,
		items: make(map[K]V),
		seq:   make(map[K]uint64),
	}
	s.loadLocal(context.Background())

	if opts.Identity != nil {
		s.unsubIdentity = opts.Identity.OnChange(s.identityChanged)
		if current := opts.Identity.Current(); current != nil {
			s.identityChanged(current)
		}
	}
	return s
}

// Contains is a pure read of current in-memory state.
func (s *Set[K, V]) Contains(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[key]
	return ok
}

// Items returns a snapshot of current values.
func (s *Set[K, V]) Items() []V {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valuesLocked()
}

func (s *Set[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Toggle flips membership of item's key. The flip lands in memory before
// this method returns; the remote insert/delete (authenticated mode only)
// runs in the background and reverts the flip on failure, unless a newer
// toggle of the same key superseded it.
func (s *Set[K, V]) Toggle(ctx context.Context, item V) {
	key := s.opts.KeyOf(item)

	s.mu.Lock()
	_, present := s.items[key]
	if present {
		delete(s.items, key)
	} else {
		s.items[key] = item
	}
	s.seq[key]++
	seq := s.seq[key]
	owner := s.owner
	s.mirrorLocked(ctx)
	s.mu.Unlock()

	if s.opts.Metrics != nil {
		s.opts.Metrics.Toggles.WithLabelValues(s.opts.Name).Inc()
	}
	if owner == nil || s.opts.Remote == nil {
		return
	}

	go s.confirmToggle(owner.ID, item, key, present, seq)
}

func (s *Set[K, V]) confirmToggle(ownerID string, item V, key K, wasPresent bool, seq uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()

	var err error
	if wasPresent {
		err = s.opts.Remote.Delete(ctx, ownerID, key)
	} else {
		err = s.opts.Remote.Insert(ctx, ownerID, item)
	}
	if err == nil {
		return
	}
	log.Printf("%s: remote toggle failed, reverting: %v", s.opts.Name, err)
	if s.opts.Metrics != nil {
		s.opts.Metrics.SilentReverts.WithLabelValues(s.opts.Name).Inc()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq[key] != seq {
		// A newer toggle of this key was issued; its state wins.
		return
	}
	if wasPresent {
		s.items[key] = item
	} else {
		delete(s.items, key)
	}
}

// Update applies fn to the live map under the lock and mirrors the result
// when in anonymous (or local-only) mode. Used by layers that need richer
// mutations than a membership flip.
func (s *Set[K, V]) Update(ctx context.Context, fn func(map[K]V)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.items)
	s.mirrorLocked(ctx)
}

// Close tears down the identity and realtime subscriptions.
func (s *Set[K, V]) Close() {
	if s.unsubIdentity != nil {
		s.unsubIdentity()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopFeedLocked()
}

// identityChanged switches persistence modes. Sign-in discards in-memory
// state in favor of a full gateway fetch for the new identity; there is no
// merge of prior anonymous state. Sign-out falls back to whatever the local
// store holds.
func (s *Set[K, V]) identityChanged(ident *identity.Identity) {
	s.mu.Lock()
	s.owner = ident
	s.stopFeedLocked()

	if ident == nil {
		s.mu.Unlock()
		s.loadLocal(context.Background())
		return
	}
	if s.opts.Remote == nil {
		// Local-only sets keep their in-memory state across sign-in.
		s.mu.Unlock()
		return
	}
	s.startFeedLocked(ident.ID)
	s.mu.Unlock()

	go s.refetch(ident.ID)
}

// refetch replaces in-memory state wholesale from the gateway. Concurrent
// triggers (realtime bursts, identity change) are collapsed to one fetch.
// Errors are swallowed: stale state is preferable to a failed session.
func (s *Set[K, V]) refetch(ownerID string) {
	_, _, _ = s.sfg.Do(ownerID, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()

		items, err := s.opts.Remote.Fetch(ctx, ownerID)
		if err != nil {
			log.Printf("%s: remote fetch failed: %v", s.opts.Name, err)
			return nil, nil
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.owner == nil || s.owner.ID != ownerID {
			return nil, nil // identity changed while fetching
		}
		s.replaceLocked(items)
		return nil, nil
	})
}

func (s *Set[K, V]) startFeedLocked(ownerID string) {
	if s.opts.Feed == nil || s.opts.Table == "" {
		return
	}
	ch, cancel := s.opts.Feed.Subscribe(s.opts.Table, ownerID)
	s.cancelFeed = cancel
	go func() {
		for range ch {
			// No payload diff on the channel; a full re-fetch is the
			// required reaction and is idempotent to apply.
			s.refetch(ownerID)
		}
	}()
}

func (s *Set[K, V]) stopFeedLocked() {
	if s.cancelFeed != nil {
		s.cancelFeed()
		s.cancelFeed = nil
	}
}

func (s *Set[K, V]) replaceLocked(items []V) {
	s.items = make(map[K]V, len(items))
	for _, item := range items {
		s.items[s.opts.KeyOf(item)] = item
	}
	// Dropping the versions makes every in-flight revert a no-op; the fetch
	// result is newer than anything those requests knew about.
	s.seq = make(map[K]uint64)
}

func (s *Set[K, V]) loadLocal(ctx context.Context) {
	if s.opts.Local == nil {
		return
	}
	raw, err := s.opts.Local.Get(ctx, s.opts.CacheKey)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.replaceLocked(nil)
		if !errors.Is(err, localstore.ErrNotFound) {
			log.Printf("%s: local load failed: %v", s.opts.Name, err)
		}
		return
	}
	var items []V
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Printf("%s: local state corrupt, starting empty: %v", s.opts.Name, err)
		s.replaceLocked(nil)
		return
	}
	s.replaceLocked(items)
}

// mirrorLocked writes the current values to the local store. Only anonymous
// (or local-only) state is mirrored; authenticated remote-backed state never
// touches the local store.
func (s *Set[K, V]) mirrorLocked(ctx context.Context) {
	if s.opts.Local == nil {
		return
	}
	if s.owner != nil && s.opts.Remote != nil {
		return
	}
	raw, err := json.Marshal(s.valuesLocked())
	if err != nil {
		log.Printf("%s: marshal for local mirror failed: %v", s.opts.Name, err)
		return
	}
	if err := s.opts.Local.Set(ctx, s.opts.CacheKey, string(raw)); err != nil {
		log.Printf("%s: local mirror failed: %v", s.opts.Name, err)
	}
}

func (s *Set[K, V]) valuesLocked() []V {
	values := make([]V, 0, len(s.items))
	for _, v := range s.items {
		values = append(values, v)
	}
	return values
}
