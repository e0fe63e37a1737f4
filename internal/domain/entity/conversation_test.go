package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yohan201609-oss/El-ventorrillo/pkg/errors"
)

func TestDeriveConversationIDSortsParticipants(t *testing.T) {
	id, err := DeriveConversationID("u2", "u1")
	assert.NoError(t, err)
	assert.Equal(t, "u1_u2", id)
}

func TestDeriveConversationIDIsCommutative(t *testing.T) {
	ab, err := DeriveConversationID("alice", "bob")
	assert.NoError(t, err)
	ba, err := DeriveConversationID("bob", "alice")
	assert.NoError(t, err)
	assert.Equal(t, ab, ba)
}

func TestDeriveConversationIDRejectsSelf(t *testing.T) {
	_, err := DeriveConversationID("u1", "u1")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestOtherParticipant(t *testing.T) {
	conv := &Conversation{Participants: []string{"u1", "u2"}}
	assert.Equal(t, "u2", conv.OtherParticipant("u1"))
	assert.Equal(t, "u1", conv.OtherParticipant("u2"))
	assert.True(t, conv.HasParticipant("u1"))
	assert.False(t, conv.HasParticipant("u3"))
}
