package repository

import (
	"context"

	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/entity"
)

// ConversationRepository persists conversations and their message
// subcollections. Listen methods deliver the full current snapshot
// immediately and again on every change; the returned cancel func stops
// delivery, after which the callback is never invoked again.
type ConversationRepository interface {
	// Create writes a new conversation under its derived ID. Returns a
	// CONFLICT error when a record already exists for that ID.
	Create(ctx context.Context, conv *entity.Conversation) error
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)

	// ListByUserID returns the user's conversations ordered by most
	// recent activity first.
	ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error)
	ListenByUserID(ctx context.Context, userID string, fn func([]*entity.Conversation)) (func(), error)

	// AppendMessage writes the message and the parent's summary fields
	// (lastMessage, lastMessageAt, recipient unread counters) as one
	// atomic batch.
	AppendMessage(ctx context.Context, conv *entity.Conversation, message *entity.Message) error

	// ListMessages returns the conversation's messages in
	// chronological order.
	ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error)
	ListenMessages(ctx context.Context, conversationID string, fn func([]*entity.Message)) (func(), error)

	// MarkMessagesRead flips every unread message not sent by viewerID
	// to read and zeroes the viewer's unread counter, atomically.
	MarkMessagesRead(ctx context.Context, conversationID, viewerID string) error
}
