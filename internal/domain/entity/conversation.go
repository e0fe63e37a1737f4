package entity

import (
	"sort"
	"strings"
	"time"

	"github.com/yohan201609-oss/El-ventorrillo/pkg/errors"
)

// conversationIDSeparator joins the sorted participant pair. Firebase
// UIDs never contain underscores, so the derived ID is collision-free.
const conversationIDSeparator = "_"

// Conversation is a two-party message thread, optionally anchored to a
// product. The document ID is derived from the participant pair, which
// makes creation idempotent. ParticipantNames and the product fields
// are display snapshots taken at creation; they are not re-synced when
// the source records change later.
type Conversation struct {
	ID               string            `json:"id" firestore:"id"`
	Participants     []string          `json:"participants" firestore:"participants"`
	ParticipantNames map[string]string `json:"participant_names" firestore:"participantNames"`
	LastMessage      string            `json:"last_message" firestore:"lastMessage"`
	LastMessageAt    time.Time         `json:"last_message_at" firestore:"lastMessageAt,serverTimestamp"`
	CreatedAt        time.Time         `json:"created_at" firestore:"createdAt,serverTimestamp"`
	ProductID        string            `json:"product_id" firestore:"productId"`
	ProductTitle     string            `json:"product_title" firestore:"productTitle"`
	ProductImageURL  string            `json:"product_image_url" firestore:"productImageUrl"`
	UnreadCount      map[string]int    `json:"unread_count" firestore:"unreadCount"`
}

// DeriveConversationID returns the stable conversation ID for a pair of
// users. Commutative: DeriveConversationID(a, b) == DeriveConversationID(b, a).
func DeriveConversationID(userA, userB string) (string, error) {
	if userA == userB {
		return "", errors.BadRequest("You cannot start a conversation with yourself", nil)
	}

	participants := []string{userA, userB}
	sort.Strings(participants)
	return strings.Join(participants, conversationIDSeparator), nil
}

func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the counterparty of userID, or "" when
// userID is not a participant.
func (c *Conversation) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}
