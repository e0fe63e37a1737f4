package repository

import (
	"context"
	"sync"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/entity"
	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/repository"
	"github.com/yohan201609-oss/El-ventorrillo/pkg/errors"
	"github.com/yohan201609-oss/El-ventorrillo/pkg/logger"
	"github.com/yohan201609-oss/El-ventorrillo/pkg/timeutil"
)

type firestoreConversationRepository struct {
	client *firestore.Client
}

func NewFirestoreConversationRepository(client *firestore.Client) repository.ConversationRepository {
	return &firestoreConversationRepository{
		client: client,
	}
}

// mapWriteError converts a failed commit into the API error space.
// Transient backend outages surface as UNAVAILABLE so clients can
// retry; anything else is a failed write.
func mapWriteError(err error, message string) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return errors.Unavailable(message, err)
	}
	return errors.WriteFailed(message, err)
}

// snapshotListener serializes callback delivery against cancellation.
// Stop takes the same lock as deliver, so once Stop returns the
// callback can never fire again, even when the pump goroutine was
// already past its context check.
type snapshotListener struct {
	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
}

func newSnapshotListener(cancel context.CancelFunc) *snapshotListener {
	return &snapshotListener{cancel: cancel}
}

func (l *snapshotListener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopped = true
	l.cancel()
}

func (l *snapshotListener) deliver(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	fn()
}

func (r *firestoreConversationRepository) conversations() *firestore.CollectionRef {
	return r.client.Collection("conversations")
}

func (r *firestoreConversationRepository) messages(conversationID string) *firestore.CollectionRef {
	return r.conversations().Doc(conversationID).Collection("messages")
}

func (r *firestoreConversationRepository) Create(ctx context.Context, conv *entity.Conversation) error {
	// Create on a fixed doc ID fails with AlreadyExists when another
	// client won the race, which is how duplicate creation is absorbed.
	_, err := r.conversations().Doc(conv.ID).Create(ctx, conv)
	if err != nil {
		switch status.Code(err) {
		case codes.AlreadyExists:
			return errors.Conflict("Conversation already exists")
		case codes.PermissionDenied:
			return errors.Forbidden("Not allowed to create conversation", err)
		}
		return mapWriteError(err, "Failed to create conversation")
	}

	return nil
}

func (r *firestoreConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	doc, err := r.conversations().Doc(id).Get(ctx)
	if err != nil {
		switch status.Code(err) {
		case codes.NotFound:
			return nil, errors.NotFound("Conversation", err)
		case codes.Unavailable, codes.DeadlineExceeded:
			return nil, errors.Unavailable("Failed to get conversation", err)
		}
		return nil, errors.Internal("Failed to get conversation", err)
	}

	return docToConversation(doc), nil
}

func (r *firestoreConversationRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	iter := r.conversations().
		Where("participants", "array-contains", userID).
		OrderBy("lastMessageAt", firestore.Desc).
		Documents(ctx)

	conversations, err := collectConversations(iter)
	if err != nil {
		return nil, errors.Internal("Failed to list conversations", err)
	}
	return conversations, nil
}

func (r *firestoreConversationRepository) ListenByUserID(ctx context.Context, userID string, fn func([]*entity.Conversation)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	listener := newSnapshotListener(cancel)

	query := r.conversations().
		Where("participants", "array-contains", userID).
		OrderBy("lastMessageAt", firestore.Desc)

	snaps := query.Snapshots(ctx)
	go func() {
		defer snaps.Stop()
		for {
			snap, err := snaps.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					logger.Error("Conversation listener for user %s stopped: %v", userID, err)
				}
				return
			}

			conversations, err := collectConversations(snap.Documents)
			if err != nil {
				logger.Error("Failed to read conversation snapshot for user %s: %v", userID, err)
				return
			}

			listener.deliver(func() {
				fn(conversations)
			})
		}
	}()

	return listener.Stop, nil
}

func (r *firestoreConversationRepository) AppendMessage(ctx context.Context, conv *entity.Conversation, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	// One batch: the message record, the parent's summary fields, and
	// the recipient's unread counter. A reader never observes one
	// without the others.
	batch := r.client.Batch()
	batch.Set(r.messages(conv.ID).Doc(message.ID), message)

	updates := []firestore.Update{
		{Path: "lastMessage", Value: message.Text},
		{Path: "lastMessageAt", Value: firestore.ServerTimestamp},
	}
	for _, participantID := range conv.Participants {
		if participantID != message.SenderID {
			updates = append(updates, firestore.Update{
				FieldPath: firestore.FieldPath{"unreadCount", participantID},
				Value:     firestore.Increment(1),
			})
		}
	}
	batch.Update(r.conversations().Doc(conv.ID), updates)

	if _, err := batch.Commit(ctx); err != nil {
		if status.Code(err) == codes.PermissionDenied {
			return errors.Forbidden("Not allowed to send messages in this conversation", err)
		}
		return mapWriteError(err, "Failed to send message")
	}

	return nil
}

func (r *firestoreConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	iter := r.messages(conversationID).OrderBy("createdAt", firestore.Asc).Documents(ctx)

	messages, err := collectMessages(iter)
	if err != nil {
		return nil, errors.Internal("Failed to list messages", err)
	}
	return messages, nil
}

func (r *firestoreConversationRepository) ListenMessages(ctx context.Context, conversationID string, fn func([]*entity.Message)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	listener := newSnapshotListener(cancel)

	query := r.messages(conversationID).OrderBy("createdAt", firestore.Asc)

	snaps := query.Snapshots(ctx)
	go func() {
		defer snaps.Stop()
		for {
			snap, err := snaps.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					logger.Error("Message listener for conversation %s stopped: %v", conversationID, err)
				}
				return
			}

			messages, err := collectMessages(snap.Documents)
			if err != nil {
				logger.Error("Failed to read message snapshot for conversation %s: %v", conversationID, err)
				return
			}

			listener.deliver(func() {
				fn(messages)
			})
		}
	}()

	return listener.Stop, nil
}

func (r *firestoreConversationRepository) MarkMessagesRead(ctx context.Context, conversationID, viewerID string) error {
	unread, err := r.messages(conversationID).
		Where("senderId", "!=", viewerID).
		Where("read", "==", false).
		Documents(ctx).GetAll()
	if err != nil {
		return errors.Internal("Failed to query unread messages", err)
	}

	// The counter reset rides in the same batch even when there is
	// nothing unread, so a drifted counter still converges to zero.
	batch := r.client.Batch()
	for _, doc := range unread {
		batch.Update(doc.Ref, []firestore.Update{{Path: "read", Value: true}})
	}
	batch.Update(r.conversations().Doc(conversationID), []firestore.Update{{
		FieldPath: firestore.FieldPath{"unreadCount", viewerID},
		Value:     0,
	}})

	if _, err := batch.Commit(ctx); err != nil {
		return mapWriteError(err, "Failed to mark messages as read")
	}

	return nil
}

func collectConversations(iter *firestore.DocumentIterator) ([]*entity.Conversation, error) {
	conversations := make([]*entity.Conversation, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, docToConversation(doc))
	}
	return conversations, nil
}

func collectMessages(iter *firestore.DocumentIterator) ([]*entity.Message, error) {
	messages := make([]*entity.Message, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		messages = append(messages, docToMessage(doc))
	}
	return messages, nil
}

// docToConversation decodes a raw document map instead of relying on
// typed unmarshalling: legacy records carry string or numeric
// timestamps, and a malformed field must not break the whole listing.
func docToConversation(doc *firestore.DocumentSnapshot) *entity.Conversation {
	data := doc.Data()
	conv := &entity.Conversation{
		ID:               doc.Ref.ID,
		ParticipantNames: make(map[string]string),
		UnreadCount:      make(map[string]int),
		LastMessageAt:    timeutil.ToTime(data["lastMessageAt"]),
		CreatedAt:        timeutil.ToTime(data["createdAt"]),
	}

	if v, ok := data["participants"].([]interface{}); ok {
		for _, p := range v {
			if s, ok := p.(string); ok {
				conv.Participants = append(conv.Participants, s)
			}
		}
	}
	if v, ok := data["participantNames"].(map[string]interface{}); ok {
		for id, name := range v {
			if s, ok := name.(string); ok {
				conv.ParticipantNames[id] = s
			}
		}
	}
	if v, ok := data["lastMessage"].(string); ok {
		conv.LastMessage = v
	}
	if v, ok := data["productId"].(string); ok {
		conv.ProductID = v
	}
	if v, ok := data["productTitle"].(string); ok {
		conv.ProductTitle = v
	}
	if v, ok := data["productImageUrl"].(string); ok {
		conv.ProductImageURL = v
	}
	if v, ok := data["unreadCount"].(map[string]interface{}); ok {
		for id, count := range v {
			switch n := count.(type) {
			case int64:
				conv.UnreadCount[id] = int(n)
			case float64:
				conv.UnreadCount[id] = int(n)
			}
		}
	}

	return conv
}

func docToMessage(doc *firestore.DocumentSnapshot) *entity.Message {
	data := doc.Data()
	message := &entity.Message{
		ID:        doc.Ref.ID,
		CreatedAt: timeutil.ToTime(data["createdAt"]),
	}

	if v, ok := data["senderId"].(string); ok {
		message.SenderID = v
	}
	if v, ok := data["senderName"].(string); ok {
		message.SenderName = v
	}
	if v, ok := data["text"].(string); ok {
		message.Text = v
	}
	if v, ok := data["read"].(bool); ok {
		message.Read = v
	}

	return message
}
