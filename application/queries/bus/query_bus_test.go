package bus

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubQuery struct {
	ID          string
	validateErr error
}

func (q stubQuery) Validate() error { return q.validateErr }

type countingHandler struct {
	calls  int
	result interface{}
	err    error
}

func (h *countingHandler) Handle(_ context.Context, _ Query) (interface{}, error) {
	h.calls++
	return h.result, h.err
}

func TestQueryBus_Ask(t *testing.T) {
	queryBus := NewQueryBus()
	handler := &countingHandler{result: "answer"}
	require.NoError(t, queryBus.Register(stubQuery{}, handler))

	result, err := queryBus.Ask(context.Background(), stubQuery{ID: "q1"})

	require.NoError(t, err)
	assert.Equal(t, "answer", result)
	assert.Equal(t, 1, handler.calls)
}

func TestQueryBus_ValidatesBeforeDispatch(t *testing.T) {
	queryBus := NewQueryBus()
	handler := &countingHandler{}
	require.NoError(t, queryBus.Register(stubQuery{}, handler))

	_, err := queryBus.Ask(context.Background(), stubQuery{validateErr: errors.New("bad query")})

	require.Error(t, err)
	assert.Equal(t, 0, handler.calls)
}

func TestQueryBus_UnregisteredQuery(t *testing.T) {
	queryBus := NewQueryBus()

	_, err := queryBus.Ask(context.Background(), stubQuery{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler registered")
}

func TestQueryBus_DuplicateRegistration(t *testing.T) {
	queryBus := NewQueryBus()
	require.NoError(t, queryBus.Register(stubQuery{}, &countingHandler{}))
	assert.Error(t, queryBus.Register(stubQuery{}, &countingHandler{}))
}

// memoryCache is a minimal ports.Cache for exercising the caching middleware.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]interface{}
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]interface{})}
}

func (c *memoryCache) Get(_ context.Context, key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]interface{})
	return nil
}

func TestCachingMiddleware_ServesSecondAskFromCache(t *testing.T) {
	handler := &countingHandler{result: "expensive"}
	wrapped := NewCachingMiddleware(newMemoryCache(), 30).Wrap(handler)

	first, err := wrapped.Handle(context.Background(), stubQuery{ID: "q1"})
	require.NoError(t, err)
	second, err := wrapped.Handle(context.Background(), stubQuery{ID: "q1"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, handler.calls)
}

func TestCachingMiddleware_KeyIncludesQueryFields(t *testing.T) {
	handler := &countingHandler{result: "r"}
	wrapped := NewCachingMiddleware(newMemoryCache(), 30).Wrap(handler)

	_, err := wrapped.Handle(context.Background(), stubQuery{ID: "q1"})
	require.NoError(t, err)
	_, err = wrapped.Handle(context.Background(), stubQuery{ID: "q2"})
	require.NoError(t, err)

	assert.Equal(t, 2, handler.calls)
}

func TestCachingMiddleware_ErrorsAreNotCached(t *testing.T) {
	handler := &countingHandler{err: errors.New("transient")}
	wrapped := NewCachingMiddleware(newMemoryCache(), 30).Wrap(handler)

	_, err := wrapped.Handle(context.Background(), stubQuery{ID: "q1"})
	require.Error(t, err)

	handler.err = nil
	handler.result = "recovered"
	result, err := wrapped.Handle(context.Background(), stubQuery{ID: "q1"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", result)
	assert.Equal(t, 2, handler.calls)
}
