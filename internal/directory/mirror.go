package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Mirror keeps last-known presence in Redis at
// <prefix>:presence:<userId> so sibling services can read it without
// touching the directory database.
type Mirror struct {
	client *redis.Client
	prefix string
}

type presenceRecord struct {
	Status   string `json:"status"`
	LastSeen int64  `json:"last_seen"`
}

func NewMirror(client *redis.Client, prefix string) *Mirror {
	return &Mirror{client: client, prefix: prefix}
}

func (m *Mirror) key(userID string) string {
	return fmt.Sprintf("%s:presence:%s", m.prefix, userID)
}

func (m *Mirror) SetPresence(ctx context.Context, userID, status string, at time.Time) error {
	b, _ := json.Marshal(presenceRecord{Status: status, LastSeen: at.Unix()})
	return m.client.Set(ctx, m.key(userID), b, 0).Err()
}

// GetPresence returns the stored status and last-seen time, if any.
func (m *Mirror) GetPresence(ctx context.Context, userID string) (string, time.Time, error) {
	b, err := m.client.Get(ctx, m.key(userID)).Bytes()
	if err != nil {
		return "", time.Time{}, err
	}
	var rec presenceRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return "", time.Time{}, err
	}
	return rec.Status, time.Unix(rec.LastSeen, 0).UTC(), nil
}
