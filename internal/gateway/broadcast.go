package gateway

import (
	"time"

	"github.com/yourorg/presence-gateway/internal/protocol"
)

// broadcastStatus fans a presence transition out to every connection
// except the subject's own. The registry is snapshotted first so sends
// happen outside the lock; each enqueue is non-blocking, so one stalled
// recipient cannot hold up the rest.
func (g *Gateway) broadcastStatus(userID string, status protocol.Status, at time.Time) {
	frame := protocol.Encode(protocol.NewUserStatus(userID, status, at))
	for _, conn := range g.reg.SnapshotExcept(userID) {
		conn.Enqueue(frame)
	}
}
