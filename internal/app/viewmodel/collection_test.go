package viewmodel

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type person struct {
	ID    int
	First string
	Last  string
}

var (
	firstName = func(p person) string { return p.First }
	lastName  = func(p person) string { return p.Last }
)

func people() []person {
	return []person{
		{1, "Ada", "Lovelace"},
		{2, "Alan", "Turing"},
		{3, "Grace", "Hopper"},
		{4, "ada", "Byron"},
	}
}

func staticLoader(items []person) LoadFunc[person] {
	return func(context.Context) ([]person, error) { return items, nil }
}

// scriptedLoader hands out one pending call per Load so tests decide the
// order in which loads resolve.
type scriptedLoader struct {
	mu    sync.Mutex
	calls []chan result
	start chan struct{}
}

type result struct {
	items []person
	err   error
}

func newScriptedLoader() *scriptedLoader {
	return &scriptedLoader{start: make(chan struct{}, 16)}
}

func (s *scriptedLoader) load(ctx context.Context) ([]person, error) {
	ch := make(chan result, 1)
	s.mu.Lock()
	s.calls = append(s.calls, ch)
	s.mu.Unlock()
	s.start <- struct{}{}
	r := <-ch
	return r.items, r.err
}

func (s *scriptedLoader) resolve(i int, r result) {
	s.mu.Lock()
	ch := s.calls[i]
	s.mu.Unlock()
	ch <- r
}

func TestCollection_InitialState(t *testing.T) {
	c := NewCollection("people", staticLoader(people()))

	st := c.Status()
	assert.Equal(t, Idle, st.State)
	assert.False(t, st.HasSnapshot)
	assert.Empty(t, c.Snapshot())
}

func TestCollection_LoadReady(t *testing.T) {
	c := NewCollection("people", staticLoader(people()))

	require.NoError(t, c.Load(context.Background()))

	st := c.Status()
	assert.Equal(t, Ready, st.State)
	assert.Equal(t, 4, st.Count)
	assert.True(t, st.HasSnapshot)
	assert.False(t, st.LoadedAt.IsZero())
	assert.Equal(t, people(), c.Snapshot())
}

func TestCollection_EmptyResultIsReadyNotLoading(t *testing.T) {
	c := NewCollection("people", staticLoader(nil))

	require.NoError(t, c.Load(context.Background()))

	assert.Equal(t, Ready, c.State())
	assert.True(t, c.Status().HasSnapshot)
	assert.NotNil(t, c.Snapshot())
	assert.Empty(t, c.Snapshot())
}

func TestCollection_LoadingIsObservable(t *testing.T) {
	loader := newScriptedLoader()
	c := NewCollection("people", loader.load)

	done := make(chan error, 1)
	go func() { done <- c.Load(context.Background()) }()
	<-loader.start

	assert.Equal(t, Loading, c.State())
	assert.Equal(t, 0, c.Len())

	loader.resolve(0, result{items: people()})
	require.NoError(t, <-done)
	assert.Equal(t, Ready, c.State())
}

func TestCollection_FailureKeepsPreviousSnapshot(t *testing.T) {
	boom := errors.New("boom")
	fail := false
	c := NewCollection("people", func(context.Context) ([]person, error) {
		if fail {
			return nil, boom
		}
		return people(), nil
	})

	require.NoError(t, c.Load(context.Background()))
	fail = true
	err := c.Load(context.Background())

	assert.ErrorIs(t, err, boom)
	st := c.Status()
	assert.Equal(t, Failed, st.State)
	assert.ErrorIs(t, st.Err, boom)
	assert.True(t, st.HasSnapshot)
	assert.Equal(t, people(), c.Snapshot())

	fail = false
	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, Ready, c.State())
	assert.NoError(t, c.Status().Err)
}

func TestCollection_FailureWithoutSnapshot(t *testing.T) {
	c := NewCollection("people", func(context.Context) ([]person, error) {
		return nil, errors.New("down")
	})

	assert.Error(t, c.Load(context.Background()))
	st := c.Status()
	assert.Equal(t, Failed, st.State)
	assert.False(t, st.HasSnapshot)
	assert.Empty(t, c.Snapshot())
}

func TestCollection_LastInitiatedWins(t *testing.T) {
	loader := newScriptedLoader()
	c := NewCollection("people", loader.load)

	first := make(chan error, 1)
	second := make(chan error, 1)

	go func() { first <- c.Load(context.Background()) }()
	<-loader.start
	go func() { second <- c.Load(context.Background()) }()
	<-loader.start

	newer := []person{{9, "Newest", "Result"}}
	stale := []person{{1, "Stale", "Result"}}

	// The second load resolves first, then the slow first one.
	loader.resolve(1, result{items: newer})
	require.NoError(t, <-second)
	loader.resolve(0, result{items: stale})
	require.NoError(t, <-first)

	assert.Equal(t, newer, c.Snapshot())
	assert.Equal(t, Ready, c.State())
}

func TestCollection_SupersededFailureDoesNotTouchState(t *testing.T) {
	loader := newScriptedLoader()
	c := NewCollection("people", loader.load)

	first := make(chan error, 1)
	second := make(chan error, 1)
	go func() { first <- c.Load(context.Background()) }()
	<-loader.start
	go func() { second <- c.Load(context.Background()) }()
	<-loader.start

	loader.resolve(1, result{items: people()})
	require.NoError(t, <-second)
	loader.resolve(0, result{err: errors.New("late failure")})
	assert.Error(t, <-first)

	assert.Equal(t, Ready, c.State())
	assert.Equal(t, people(), c.Snapshot())
}

func TestCollection_ReplaceAfterMutationReloads(t *testing.T) {
	calls := 0
	c := NewCollection("people", func(context.Context) ([]person, error) {
		calls++
		return people()[:calls], nil
	})

	require.NoError(t, c.Load(context.Background()))
	require.NoError(t, c.ReplaceAfterMutation(context.Background()))

	assert.Equal(t, 2, calls)
	assert.Len(t, c.Snapshot(), 2)
}

func TestCollection_SnapshotIsACopy(t *testing.T) {
	c := NewCollection("people", staticLoader(people()))
	require.NoError(t, c.Load(context.Background()))

	snap := c.Snapshot()
	snap[0].First = "Mutated"

	assert.Equal(t, "Ada", c.Snapshot()[0].First)
}

func TestCollection_Subscribe(t *testing.T) {
	c := NewCollection("people", staticLoader(people()))

	var states []State
	c.Subscribe(func(s Status) { states = append(states, s.State) })

	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, []State{Loading, Ready}, states)
}

func TestCollection_Find(t *testing.T) {
	c := NewCollection("people", staticLoader(people()))
	require.NoError(t, c.Load(context.Background()))

	p, ok := c.Find(func(p person) bool { return p.ID == 3 })
	require.True(t, ok)
	assert.Equal(t, "Grace", p.First)

	_, ok = c.Find(func(p person) bool { return p.ID == 99 })
	assert.False(t, ok)
}

func TestFilter_EmptyQueryIsIdentity(t *testing.T) {
	c := NewCollection("people", staticLoader(people()))
	require.NoError(t, c.Load(context.Background()))

	view := c.Filter("", firstName, lastName)

	assert.Equal(t, people(), view.Items())
	assert.Equal(t, 4, view.Len())
	assert.Equal(t, 4, view.Total())
}

func TestFilter_CaseInsensitiveSubsetInOrder(t *testing.T) {
	c := NewCollection("people", staticLoader(people()))
	require.NoError(t, c.Load(context.Background()))

	for _, q := range []string{"ADA", "o", "ur", "zzz", "Hop"} {
		got := c.Filter(q, firstName, lastName).Items()

		var want []person
		for _, p := range people() {
			if strings.Contains(strings.ToLower(p.First), strings.ToLower(q)) ||
				strings.Contains(strings.ToLower(p.Last), strings.ToLower(q)) {
				want = append(want, p)
			}
		}
		if want == nil {
			want = []person{}
		}
		assert.Equal(t, want, got, "query %q", q)
	}
}

func TestFilter_Deterministic(t *testing.T) {
	c := NewCollection("people", staticLoader(people()))
	require.NoError(t, c.Load(context.Background()))

	a := c.Filter("a", firstName).Items()
	b := c.Filter("a", firstName).Items()
	assert.Equal(t, a, b)
}

func TestFilter_DoesNotMutateSnapshot(t *testing.T) {
	c := NewCollection("people", staticLoader(people()))
	require.NoError(t, c.Load(context.Background()))

	_ = c.Filter("grace", firstName).Items()

	assert.Equal(t, people(), c.Snapshot())
}

func TestFilter_OnlyTargetedFields(t *testing.T) {
	c := NewCollection("people", staticLoader(people()))
	require.NoError(t, c.Load(context.Background()))

	assert.Equal(t, 0, c.Filter("turing", firstName).Len())
	assert.Equal(t, 1, c.Filter("turing", lastName).Len())
}

func TestFilter_EarlyStop(t *testing.T) {
	c := NewCollection("people", staticLoader(people()))
	require.NoError(t, c.Load(context.Background()))

	var seen []int
	for p := range c.Filter("", firstName).All() {
		seen = append(seen, p.ID)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []int{1, 2}, seen)
}
