package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"promptshop/navigation"
)

// ErrNotFound signals an unknown or expired session.
var ErrNotFound = errors.New("session: not found")

type entry struct {
	mu       sync.Mutex
	ctrl     *navigation.Controller
	lastSeen time.Time
}

// Registry owns one navigation.Controller per shopper session. A controller
// is only ever touched while its entry lock is held, so events for the same
// session apply one at a time.
type Registry struct {
	mu          sync.RWMutex
	sessions    map[string]*entry
	newCtrl     func() *navigation.Controller
	idGenerator func() string
	now         func() time.Time
}

// NewRegistry creates an empty registry. newCtrl builds the controller for
// each new session; nil uses navigation.NewController.
func NewRegistry(newCtrl func() *navigation.Controller) *Registry {
	if newCtrl == nil {
		newCtrl = navigation.NewController
	}
	return &Registry{
		sessions:    make(map[string]*entry),
		newCtrl:     newCtrl,
		idGenerator: func() string { return uuid.NewString() },
		now:         time.Now,
	}
}

func (r *Registry) WithIDGenerator(gen func() string) *Registry {
	r.idGenerator = gen
	return r
}

func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}

// Create starts a new session and returns its id.
func (r *Registry) Create() string {
	id := r.idGenerator()
	e := &entry{ctrl: r.newCtrl(), lastSeen: r.now()}

	r.mu.Lock()
	r.sessions[id] = e
	r.mu.Unlock()
	return id
}

// With runs fn against the session's controller under the session lock.
func (r *Registry) With(ctx context.Context, id string, fn func(*navigation.Controller) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = r.now()
	return fn(e.ctrl)
}

// Delete ends a session. Unknown ids are ignored.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Reap drops sessions idle for longer than ttl and returns how many were removed.
func (r *Registry) Reap(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.sessions {
		e.mu.Lock()
		idle := e.lastSeen.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// RunReaper calls Reap every interval until ctx is cancelled. onReap, when
// non-nil, receives the number of sessions removed by each pass.
func (r *Registry) RunReaper(ctx context.Context, interval, ttl time.Duration, onReap func(int)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n := r.Reap(ttl)
			if onReap != nil && n > 0 {
				onReap(n)
			}
		}
	}
}
