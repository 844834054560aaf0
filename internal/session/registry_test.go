package session_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"msme-intel/internal/domain"
	"msme-intel/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_GetOrCreate(t *testing.T) {
	registry, err := session.NewRegistry(10, 5)
	require.NoError(t, err)

	t.Run("Same id returns same session", func(t *testing.T) {
		a := registry.GetOrCreate("alice")
		b := registry.GetOrCreate("alice")
		assert.Same(t, a, b)
	})

	t.Run("Empty id allocates fresh session", func(t *testing.T) {
		a := registry.GetOrCreate("")
		b := registry.GetOrCreate("")
		assert.NotEqual(t, a.ID(), b.ID())
		assert.NotEmpty(t, a.ID())
	})
}

func TestRegistry_BoundsLiveSessions(t *testing.T) {
	registry, err := session.NewRegistry(3, 5)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		registry.GetOrCreate(fmt.Sprintf("session-%d", i))
	}
	assert.Equal(t, 3, registry.Len())
}

func TestSession_SnapshotAndComplete(t *testing.T) {
	registry, err := session.NewRegistry(10, 3)
	require.NoError(t, err)
	s := registry.GetOrCreate("s1")

	assert.Empty(t, s.Snapshot(3))

	s.Complete(domain.ConversationTurn{User: "q1", Assistant: "a1", Timestamp: time.Now()})
	s.Complete(domain.ConversationTurn{User: "q2", Assistant: "a2", Timestamp: time.Now()})

	snapshot := s.Snapshot(3)
	require.Len(t, snapshot, 2)
	assert.Equal(t, "q1", snapshot[0].User)

	// Capacity 3: the fourth turn evicts the first.
	s.Complete(domain.ConversationTurn{User: "q3"})
	s.Complete(domain.ConversationTurn{User: "q4"})
	snapshot = s.Snapshot(3)
	require.Len(t, snapshot, 3)
	assert.Equal(t, "q2", snapshot[0].User)
}

func TestSession_Clear(t *testing.T) {
	registry, err := session.NewRegistry(10, 5)
	require.NoError(t, err)
	s := registry.GetOrCreate("s1")
	s.Complete(domain.ConversationTurn{User: "q"})

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestSession_ConcurrentCompletes(t *testing.T) {
	registry, err := session.NewRegistry(10, 100)
	require.NoError(t, err)
	s := registry.GetOrCreate("busy")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Complete(domain.ConversationTurn{User: "q"})
			_ = s.Snapshot(10)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
}
