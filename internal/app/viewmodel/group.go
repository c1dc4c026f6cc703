package viewmodel

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Loader is anything that can be loaded as part of a group
type Loader interface {
	Name() string
	Load(ctx context.Context) error
}

// GroupState summarises a set of concurrent loads
type GroupState int

const (
	// GroupReady means every member loaded
	GroupReady GroupState = iota
	// GroupPartial means some members failed
	GroupPartial
	// GroupFailed means every member failed
	GroupFailed
)

// String returns the group state name
func (s GroupState) String() string {
	switch s {
	case GroupReady:
		return "ready"
	case GroupPartial:
		return "partial"
	default:
		return "failed"
	}
}

// MarshalText lets group states appear by name in JSON
func (s GroupState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// GroupResult is the outcome of LoadAll
type GroupResult struct {
	State  GroupState
	Errors map[string]error
}

// Err joins the member errors, nil when every member loaded
func (r GroupResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Errors))
	for _, err := range r.Errors {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Failed reports whether the named member failed
func (r GroupResult) Failed(name string) bool {
	_, ok := r.Errors[name]
	return ok
}

// LoadAll loads every member concurrently. Each member completes on its
// own; a failure does not cancel or delay the others.
func LoadAll(ctx context.Context, members ...Loader) GroupResult {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs = make(map[string]error)
	)

	for _, m := range members {
		g.Go(func() error {
			if err := m.Load(ctx); err != nil {
				mu.Lock()
				errs[m.Name()] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	result := GroupResult{State: GroupReady, Errors: errs}
	switch {
	case len(members) > 0 && len(errs) == len(members):
		result.State = GroupFailed
	case len(errs) > 0:
		result.State = GroupPartial
	}
	return result
}
