package httpx

import (
	"context"
	"sync"
	"time"

	"github.com/ariefcatur/go-storefront/internal/logger"
	"github.com/ariefcatur/go-storefront/internal/storefront"
	"github.com/ariefcatur/go-storefront/internal/wizard"
)

// Wizard is what the registry and the shared handlers need from either flow.
type Wizard interface {
	ID() string
	Kind() storefront.WizardKind
	State() wizard.State
	Advance() error
	Retreat() error
	JumpTo(i int) error
	View() any
}

type registered struct {
	w       Wizard
	owner   string
	touched time.Time
}

// Registry holds live wizard sessions keyed by id. Each session belongs to the
// bearer token that created it and is evicted after ttl of inactivity.
type Registry struct {
	mu    sync.Mutex
	items map[string]*registered
	ttl   time.Duration
	now   func() time.Time
	log   *logger.Logger
}

func NewRegistry(ttl time.Duration, log *logger.Logger) *Registry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		items: make(map[string]*registered),
		ttl:   ttl,
		now:   time.Now,
		log:   log.With("component", "registry"),
	}
}

func (r *Registry) Put(owner string, w Wizard) {
	r.mu.Lock()
	r.items[w.ID()] = &registered{w: w, owner: owner, touched: r.now()}
	r.mu.Unlock()
}

// Get returns the session if owner created it and it has not expired. A lookup
// counts as activity.
func (r *Registry) Get(owner, id string) (Wizard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok || e.owner != owner {
		return nil, errWizardNotFound
	}
	now := r.now()
	if now.Sub(e.touched) >= r.ttl && e.w.State() != wizard.StateSubmitting {
		delete(r.items, id)
		return nil, errWizardNotFound
	}
	e.touched = now
	return e.w, nil
}

func (r *Registry) Delete(owner, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok || e.owner != owner {
		return false
	}
	delete(r.items, id)
	return true
}

// DropOwner discards every session of a signed-out token.
func (r *Registry) DropOwner(owner string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.items {
		if e.owner == owner {
			delete(r.items, id)
			n++
		}
	}
	return n
}

// Sweep evicts idle sessions. A submission in flight keeps its session alive.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	n := 0
	for id, e := range r.items {
		if now.Sub(e.touched) >= r.ttl && e.w.State() != wizard.StateSubmitting {
			delete(r.items, id)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Run sweeps every half ttl until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	t := time.NewTicker(r.ttl / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(); n > 0 {
				r.log.Info("idle wizard sessions evicted", "count", n, "live", r.Len())
			}
		}
	}
}
