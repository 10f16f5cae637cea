package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/presence-gateway/internal/protocol"
)

type stubConn struct {
	closedCode int
}

func (s *stubConn) Enqueue(data []byte) bool { return true }
func (s *stubConn) CloseWithReason(code int, reason string) {
	s.closedCode = code
}

func TestRegisterSingleEntryPerUser(t *testing.T) {
	r := New()
	first := &stubConn{}
	second := &stubConn{}

	assert.Nil(t, r.Register("alice", first))
	displaced := r.Register("alice", second)
	assert.Same(t, first, displaced)

	got, ok := r.Lookup("alice")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Len(t, r.SnapshotOnlineIDs(), 1)
}

func TestDeregisterGuardsAgainstStaleConn(t *testing.T) {
	r := New()
	old := &stubConn{}
	newer := &stubConn{}
	r.Register("alice", old)
	r.Register("alice", newer)

	// the displaced connection's late disconnect must not evict the
	// session that replaced it
	assert.False(t, r.Deregister("alice", old))
	_, ok := r.Lookup("alice")
	assert.True(t, ok)

	assert.True(t, r.Deregister("alice", newer))
	_, ok = r.Lookup("alice")
	assert.False(t, ok)
}

func TestDeregisterAbsentUserIsNoop(t *testing.T) {
	r := New()
	assert.False(t, r.Deregister("ghost", &stubConn{}))
}

func TestSetStatus(t *testing.T) {
	r := New()
	r.Register("alice", &stubConn{})

	assert.True(t, r.SetStatus("alice", protocol.StatusAway))
	assert.False(t, r.SetStatus("ghost", protocol.StatusAway))

	pres := r.SnapshotPresence()
	require.Len(t, pres, 1)
	assert.Equal(t, "alice", pres[0].UserID)
	assert.Equal(t, protocol.StatusAway, pres[0].Status)
	assert.False(t, pres[0].LastSeen.IsZero())
}

func TestSnapshotExcept(t *testing.T) {
	r := New()
	alice := &stubConn{}
	bob := &stubConn{}
	carol := &stubConn{}
	r.Register("alice", alice)
	r.Register("bob", bob)
	r.Register("carol", carol)

	conns := r.SnapshotExcept("alice")
	assert.Len(t, conns, 2)
	for _, c := range conns {
		assert.NotSame(t, alice, c)
	}
}
