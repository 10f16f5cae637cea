package protocol

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInbound(t *testing.T) {
	t.Run("message", func(t *testing.T) {
		in, err := DecodeInbound([]byte(`{"type":"message","recipientId":"bob","content":"hi","messageId":"m1"}`))
		require.NoError(t, err)
		assert.Equal(t, TypeMessage, in.Type)
		assert.Equal(t, "bob", in.RecipientID)
		assert.Equal(t, "hi", in.Content)
		assert.Equal(t, "m1", in.MessageID)
	})

	t.Run("typing", func(t *testing.T) {
		in, err := DecodeInbound([]byte(`{"type":"typing","recipientId":"bob","isTyping":true}`))
		require.NoError(t, err)
		assert.Equal(t, TypeTyping, in.Type)
		assert.True(t, in.IsTyping)
	})

	t.Run("missing type", func(t *testing.T) {
		_, err := DecodeInbound([]byte(`{"recipientId":"bob"}`))
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := DecodeInbound([]byte(`{nope`))
		assert.Error(t, err)
	})
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"online", "away", "busy"} {
		got, ok := ParseStatus(s)
		assert.True(t, ok, s)
		assert.Equal(t, Status(s), got)
	}
	// offline is a broadcast-only value, never client-settable
	for _, s := range []string{"offline", "", "invisible"} {
		_, ok := ParseStatus(s)
		assert.False(t, ok, s)
	}
}

func TestOutboundWireFields(t *testing.T) {
	at := time.UnixMilli(1700000000000)

	var ack map[string]any
	require.NoError(t, json.Unmarshal(Encode(NewConnectionAck("alice")), &ack))
	assert.Equal(t, "connectionAck", ack["type"])
	assert.Equal(t, "success", ack["status"])
	assert.Equal(t, "alice", ack["userId"])

	var us map[string]any
	require.NoError(t, json.Unmarshal(Encode(NewUserStatus("alice", StatusOffline, at)), &us))
	assert.Equal(t, "userStatus", us["type"])
	assert.Equal(t, "offline", us["status"])
	assert.EqualValues(t, 1700000000000, us["timestamp"])

	var md map[string]any
	require.NoError(t, json.Unmarshal(Encode(NewMessageDelivered("m1", false)), &md))
	assert.Equal(t, "messageDelivered", md["type"])
	assert.Equal(t, "m1", md["messageId"])
	assert.Equal(t, false, md["recipientOnline"])
}
