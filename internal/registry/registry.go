package registry

import (
	"sync"
	"time"

	"github.com/yourorg/presence-gateway/internal/protocol"
)

// Conn is the send/close capability held by a registry entry. The
// registry is the sole owner of these handles; callers obtain one via
// Lookup or a snapshot and use it for a single send only.
type Conn interface {
	Enqueue(data []byte) bool
	CloseWithReason(code int, reason string)
}

type entry struct {
	conn     Conn
	status   protocol.Status
	lastSeen time.Time
}

// Presence is a point-in-time view of one live entry.
type Presence struct {
	UserID   string          `json:"userId"`
	Status   protocol.Status `json:"status"`
	LastSeen time.Time       `json:"lastSeen"`
}

// Registry maps a user identity to its single live connection. At most
// one entry exists per identity; a second Register for the same user
// displaces the first.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func New() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register admits conn as the live connection for userID, status
// online. If a previous connection exists it is removed and returned;
// the caller is responsible for closing it.
func (r *Registry) Register(userID string, conn Conn) (displaced Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.entries[userID]; ok {
		displaced = old.conn
	}
	r.entries[userID] = &entry{
		conn:     conn,
		status:   protocol.StatusOnline,
		lastSeen: time.Now().UTC(),
	}
	return displaced
}

// Deregister removes userID's entry only if conn is still the current
// one. A stale disconnect from a displaced connection must not evict
// the session that replaced it.
func (r *Registry) Deregister(userID string, conn Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[userID]
	if !ok || e.conn != conn {
		return false
	}
	delete(r.entries, userID)
	return true
}

// Lookup returns the live connection for userID, if any.
func (r *Registry) Lookup(userID string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[userID]
	if !ok {
		return nil, false
	}
	return e.conn, true
}

// SetStatus updates the stored status and last-seen time for userID.
// No-op if the user has no live entry.
func (r *Registry) SetStatus(userID string, status protocol.Status) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[userID]
	if !ok {
		return false
	}
	e.status = status
	e.lastSeen = time.Now().UTC()
	return true
}

// SnapshotOnlineIDs returns the identities with a live connection.
func (r *Registry) SnapshotOnlineIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	return ids
}

// SnapshotExcept returns the connections of every user except userID.
// Callers iterate the snapshot outside the lock, so a send to one
// recipient cannot block registry operations.
func (r *Registry) SnapshotExcept(userID string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conns := make([]Conn, 0, len(r.entries))
	for id, e := range r.entries {
		if id == userID {
			continue
		}
		conns = append(conns, e.conn)
	}
	return conns
}

// SnapshotPresence returns the full presence view of all live entries.
func (r *Registry) SnapshotPresence() []Presence {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Presence, 0, len(r.entries))
	for id, e := range r.entries {
		out = append(out, Presence{UserID: id, Status: e.status, LastSeen: e.lastSeen})
	}
	return out
}
