package directory

import (
	"testing"

	"go.uber.org/zap"

	"github.com/yourorg/presence-gateway/internal/protocol"
)

func TestPersistStatusWithoutCollaborators(t *testing.T) {
	// the gateway must run with neither directory nor mirror configured
	s := NewSync(nil, nil, zap.NewNop().Sugar())
	s.PersistStatus("alice", protocol.StatusOnline)
	s.PersistStatus("alice", protocol.StatusOffline)
}
