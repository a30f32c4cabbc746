package socket

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubChannel records what was pushed through it.
type stubChannel struct {
	id   string
	mu   sync.Mutex
	sent []string
	err  error
}

func (s *stubChannel) ID() string { return s.id }

func (s *stubChannel) Send(event string, _ any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, event)
	return s.err
}

func (s *stubChannel) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func TestRegistryAddAndLookup(t *testing.T) {
	reg := NewRegistry(zap.NewNop())

	assert.False(t, reg.IsOnline("p1"))
	assert.Empty(t, reg.Channels("p1"))
	assert.Equal(t, 0, reg.OnlineCount())

	reg.Add("p1", &stubChannel{id: "c1"})
	reg.Add("p1", &stubChannel{id: "c2"})
	reg.Add("p2", &stubChannel{id: "c3"})

	assert.True(t, reg.IsOnline("p1"))
	assert.Len(t, reg.Channels("p1"), 2)
	assert.Len(t, reg.Channels("p2"), 1)
	assert.Equal(t, 2, reg.OnlineCount())
	assert.ElementsMatch(t, []string{"p1", "p2"}, reg.OnlineParticipants())
}

func TestRegistryAddReplacesSameChannelID(t *testing.T) {
	reg := NewRegistry(zap.NewNop())

	first := &stubChannel{id: "c1"}
	second := &stubChannel{id: "c1"}
	reg.Add("p1", first)
	reg.Add("p1", second)

	channels := reg.Channels("p1")
	require.Len(t, channels, 1)
	require.NoError(t, channels[0].Send("ping", nil))
	assert.Equal(t, 0, first.sentCount())
	assert.Equal(t, 1, second.sentCount())
}

func TestRegistryRemoveDropsEmptyParticipant(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	reg.Add("p1", &stubChannel{id: "c1"})
	reg.Add("p1", &stubChannel{id: "c2"})

	reg.Remove("p1", "c1")
	assert.True(t, reg.IsOnline("p1"), "one channel left")

	reg.Remove("p1", "c2")
	assert.False(t, reg.IsOnline("p1"))
	assert.Equal(t, 0, reg.OnlineCount())
	assert.NotContains(t, reg.OnlineParticipants(), "p1")
}

func TestRegistryRemoveUnknownIsNoOp(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	reg.Remove("ghost", "c1")

	reg.Add("p1", &stubChannel{id: "c1"})
	reg.Remove("p1", "unknown-channel")
	assert.True(t, reg.IsOnline("p1"))
}

func TestRegistryConcurrentAddRemove(t *testing.T) {
	reg := NewRegistry(zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			pid := fmt.Sprintf("p%d", n%4)
			cid := fmt.Sprintf("c%d", n)
			reg.Add(pid, &stubChannel{id: cid})
			reg.IsOnline(pid)
			reg.Channels(pid)
			reg.Remove(pid, cid)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, reg.OnlineCount())
}
