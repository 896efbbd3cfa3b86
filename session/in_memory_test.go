package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/workflow"
)

// Interface compliance (compile-time assertion)
var _ Store = (*InMemoryStore)(nil)

func TestInMemoryStore(t *testing.T) {
	store := NewInMemoryStore()

	_, err := store.Get("ctx-1")
	assert.ErrorIs(t, err, ErrNotFound)

	sess, created := store.GetOrCreate("ctx-1")
	require.True(t, created)
	assert.Equal(t, "ctx-1", sess.ID)

	again, created := store.GetOrCreate("ctx-1")
	assert.False(t, created)
	assert.Same(t, sess, again)

	store.GetOrCreate("ctx-0")
	assert.Equal(t, []string{"ctx-0", "ctx-1"}, store.List())

	require.NoError(t, store.Delete("ctx-1"))
	assert.ErrorIs(t, store.Delete("ctx-1"), ErrNotFound)
	assert.Equal(t, []string{"ctx-0"}, store.List())
}

func TestSessionState(t *testing.T) {
	sess := New("ctx")
	assert.Nil(t, sess.Graph())
	assert.False(t, sess.Paused())

	g := workflow.NewGraph(nil, nil)
	sess.SetGraph(g)
	assert.Same(t, g, sess.Graph())
	assert.False(t, sess.Paused())
	assert.False(t, sess.UpdatedAt().Before(sess.CreatedAt))

	sess.AddResult(nil)
	sess.AddResult(&core.Artifact{ID: "a1"})
	results := sess.Results()
	require.Len(t, results, 1)
	results[0] = nil
	assert.NotNil(t, sess.Results()[0])

	sess.SetGraph(workflow.NewGraph(nil, nil))
	assert.Empty(t, sess.Results())
}

func TestSessionConcurrentResults(t *testing.T) {
	sess := New("ctx")
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess.AddResult(&core.Artifact{ID: core.NewID()})
			_ = sess.Results()
		}()
	}
	wg.Wait()
	assert.Len(t, sess.Results(), 50)
}
