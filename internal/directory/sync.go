package directory

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/presence-gateway/internal/protocol"
)

const (
	persistTimeout = 5 * time.Second
	maxInFlight    = 64
)

// Sync dispatches presence persistence off the session hot path.
// Failures are logged and swallowed: a dead directory or mirror never
// affects a live connection.
type Sync struct {
	dir    *Directory
	mirror *Mirror
	sem    chan struct{}
	log    *zap.SugaredLogger
}

// NewSync accepts nil collaborators; whatever is absent is skipped.
func NewSync(dir *Directory, mirror *Mirror, log *zap.SugaredLogger) *Sync {
	return &Sync{
		dir:    dir,
		mirror: mirror,
		sem:    make(chan struct{}, maxInFlight),
		log:    log,
	}
}

// PersistStatus records a presence transition asynchronously. When too
// many writes are already in flight the update is dropped with a
// warning; presence persistence is advisory.
func (s *Sync) PersistStatus(userID string, status protocol.Status) {
	select {
	case s.sem <- struct{}{}:
	default:
		s.log.Warnw("directory sync saturated, dropping update", "user_id", userID, "status", status)
		return
	}
	go func() {
		defer func() { <-s.sem }()
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		now := time.Now().UTC()
		if s.dir != nil {
			online := status != protocol.StatusOffline
			if err := s.dir.SetOnlineFlag(ctx, userID, online); err != nil {
				s.log.Warnw("directory update failed", "user_id", userID, "error", err)
			}
		}
		if s.mirror != nil {
			if err := s.mirror.SetPresence(ctx, userID, string(status), now); err != nil {
				s.log.Warnw("presence mirror update failed", "user_id", userID, "error", err)
			}
		}
	}()
}
