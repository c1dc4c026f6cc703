// Package viewmodel holds the client-side copy of remote collections.
//
// A Collection owns the last fetched snapshot of one resource and the
// loading state around it. The snapshot is only ever replaced wholesale by
// Load; consumers get copies or lazy filtered views, and mutations are
// reflected by reloading (ReplaceAfterMutation), never by patching.
package viewmodel

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// State is the loading state of a collection
type State int

const (
	// Idle means no load was ever issued
	Idle State = iota
	// Loading means the newest initiated load has not resolved yet
	Loading
	// Ready means the newest load succeeded
	Ready
	// Failed means the newest load failed; an older snapshot may remain
	Failed
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText lets states appear by name in JSON
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// LoadFunc fetches a full collection
type LoadFunc[T any] func(ctx context.Context) ([]T, error)

// Status is a consistent read of a collection's state
type Status struct {
	Name        string
	State       State
	Count       int
	HasSnapshot bool
	Err         error
	LoadedAt    time.Time
}

// Option configures a Collection
type Option func(*options)

type options struct {
	logger zerolog.Logger
	now    func() time.Time
}

// WithLogger sets the logger used for load diagnostics
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock overrides time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Collection is the view-model of one remote collection
type Collection[T any] struct {
	name   string
	load   LoadFunc[T]
	logger zerolog.Logger
	now    func() time.Time

	mu          sync.Mutex
	state       State
	snapshot    []T
	hasSnapshot bool
	lastErr     error
	loadedAt    time.Time
	initiated   uint64
	listeners   []func(Status)
}

// NewCollection creates an idle collection backed by load
func NewCollection[T any](name string, load LoadFunc[T], opts ...Option) *Collection[T] {
	o := options{logger: zerolog.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Collection[T]{
		name:   name,
		load:   load,
		logger: o.logger.With().Str("collection", name).Logger(),
		now:    o.now,
		state:  Idle,
	}
}

// Name returns the collection name
func (c *Collection[T]) Name() string {
	return c.name
}

// Load fetches the collection and, unless a newer Load was initiated in the
// meantime, replaces the snapshot (on success) or marks the collection
// Failed while keeping the previous snapshot (on failure). The fetch error,
// if any, is returned either way.
func (c *Collection[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.initiated++
	generation := c.initiated
	c.state = Loading
	c.lastErr = nil
	status := c.statusLocked()
	c.mu.Unlock()
	c.notify(status)

	items, err := c.load(ctx)

	c.mu.Lock()
	if generation != c.initiated {
		c.mu.Unlock()
		c.logger.Debug().Uint64("generation", generation).Msg("Discarding superseded load result")
		return err
	}
	if err != nil {
		c.state = Failed
		c.lastErr = err
	} else {
		if items == nil {
			items = []T{}
		}
		c.snapshot = items
		c.hasSnapshot = true
		c.state = Ready
		c.loadedAt = c.now()
	}
	status = c.statusLocked()
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn().Err(err).Bool("keptSnapshot", status.HasSnapshot).Msg("Collection load failed")
	} else {
		c.logger.Debug().Int("count", status.Count).Msg("Collection loaded")
	}
	c.notify(status)
	return err
}

// ReplaceAfterMutation reloads the collection. It is the only way a
// create, update or delete becomes visible in the snapshot.
func (c *Collection[T]) ReplaceAfterMutation(ctx context.Context) error {
	return c.Load(ctx)
}

// Status returns the current state
func (c *Collection[T]) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

// State returns the current loading state
func (c *Collection[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LoadedAt returns when the current snapshot was fetched, zero before the
// first successful load
func (c *Collection[T]) LoadedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadedAt
}

// Snapshot returns a copy of the last successfully loaded items
func (c *Collection[T]) Snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.snapshot)
}

// Len returns the snapshot size
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.snapshot)
}

// Find returns the first snapshot item satisfying match
func (c *Collection[T]) Find(match func(T) bool) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.snapshot {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Filter returns a lazy view of the snapshot items whose fields contain
// query, case-insensitively. The view keeps the snapshot it was created
// from; later loads do not change it.
func (c *Collection[T]) Filter(query string, fields ...Field[T]) View[T] {
	c.mu.Lock()
	items := c.snapshot
	c.mu.Unlock()
	return newView(items, query, fields)
}

// Subscribe registers fn to be called after every state change
func (c *Collection[T]) Subscribe(fn func(Status)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Collection[T]) statusLocked() Status {
	return Status{
		Name:        c.name,
		State:       c.state,
		Count:       len(c.snapshot),
		HasSnapshot: c.hasSnapshot,
		Err:         c.lastErr,
		LoadedAt:    c.loadedAt,
	}
}

func (c *Collection[T]) notify(status Status) {
	c.mu.Lock()
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(status)
	}
}
