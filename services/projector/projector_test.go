package projector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	mu         sync.Mutex
	items      []string
	listErr    error
	changes    chan struct{}
	changesErr error
}

func newFakeSource(items ...string) *fakeSource {
	return &fakeSource{items: items, changes: make(chan struct{}, 1)}
}

func (s *fakeSource) List(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *fakeSource) Changes(context.Context) (<-chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.changesErr != nil {
		err := s.changesErr
		s.changesErr = nil
		return nil, err
	}
	return s.changes, nil
}

func (s *fakeSource) setItems(items ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

func (s *fakeSource) setListErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listErr = err
}

func (s *fakeSource) signal() {
	s.changes <- struct{}{}
}

func waitUpdate(t *testing.T, ch <-chan Update[string]) Update[string] {
	t.Helper()
	select {
	case u := <-ch:
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
		return Update[string]{}
	}
}

func assertNoUpdate(t *testing.T, ch <-chan Update[string]) {
	t.Helper()
	select {
	case u := <-ch:
		t.Fatalf("unexpected update: %+v", u)
	case <-time.After(100 * time.Millisecond):
	}
}

func subscribe(t *testing.T, src *fakeSource) (<-chan Update[string], func()) {
	t.Helper()
	updates := make(chan Update[string], 16)
	dispose, err := New[string](src, zap.NewNop()).Subscribe(context.Background(), func(u Update[string]) {
		updates <- u
	})
	require.NoError(t, err)
	return updates, dispose
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	src := newFakeSource("a", "b")
	updates, dispose := subscribe(t, src)
	defer dispose()

	u := waitUpdate(t, updates)
	assert.Equal(t, []string{"a", "b"}, u.Items)
	assert.False(t, u.Stale)
}

func TestSubscribeFailsWhenInitialListFails(t *testing.T) {
	src := newFakeSource()
	src.setListErr(errors.New("store down"))

	_, err := New[string](src, zap.NewNop()).Subscribe(context.Background(), func(Update[string]) {
		t.Fatal("no delivery expected")
	})
	require.Error(t, err)
}

func TestChangeTriggersFreshSnapshot(t *testing.T) {
	src := newFakeSource("a")
	updates, dispose := subscribe(t, src)
	defer dispose()

	waitUpdate(t, updates) // initial

	src.setItems("a", "b")
	src.signal()

	u := waitUpdate(t, updates)
	assert.Equal(t, []string{"a", "b"}, u.Items)
	assert.False(t, u.Stale)
}

func TestDisposeStopsDeliveries(t *testing.T) {
	src := newFakeSource("a")
	updates, dispose := subscribe(t, src)

	waitUpdate(t, updates) // initial
	dispose()

	select {
	case src.changes <- struct{}{}:
	default:
		// Run loop already stopped consuming; either way no delivery follows.
	}
	assertNoUpdate(t, updates)
}

func TestListFailureDeliversStaleSnapshot(t *testing.T) {
	src := newFakeSource("a")
	updates, dispose := subscribe(t, src)
	defer dispose()

	waitUpdate(t, updates) // initial

	src.setListErr(errors.New("store down"))
	src.signal()

	u := waitUpdate(t, updates)
	assert.True(t, u.Stale)
	assert.Equal(t, []string{"a"}, u.Items, "stale redelivers the last good snapshot")

	// Once the store recovers the next change yields fresh data again.
	src.setListErr(nil)
	src.setItems("a", "c")
	src.signal()

	u = waitUpdate(t, updates)
	assert.False(t, u.Stale)
	assert.Equal(t, []string{"a", "c"}, u.Items)
}

func TestStreamEndDeliversStaleSnapshot(t *testing.T) {
	src := newFakeSource("a")
	updates, dispose := subscribe(t, src)
	defer dispose()

	waitUpdate(t, updates) // initial

	close(src.changes)

	u := waitUpdate(t, updates)
	assert.True(t, u.Stale)
	assert.Equal(t, []string{"a"}, u.Items)
}

func TestChangesErrorDeliversStaleThenReconnects(t *testing.T) {
	src := newFakeSource("a")
	src.mu.Lock()
	src.changesErr = errors.New("watch refused")
	src.mu.Unlock()

	updates, dispose := subscribe(t, src)
	defer dispose()

	waitUpdate(t, updates) // initial

	u := waitUpdate(t, updates)
	assert.True(t, u.Stale)

	// The retry (after backoff) obtains the stream and live updates resume.
	src.setItems("a", "b")
	src.signal()

	u = waitUpdate(t, updates)
	assert.False(t, u.Stale)
	assert.Equal(t, []string{"a", "b"}, u.Items)
}
