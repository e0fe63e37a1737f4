package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/entity"
	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/repository"
	"github.com/yohan201609-oss/El-ventorrillo/internal/infrastructure/ratelimit"
	ws "github.com/yohan201609-oss/El-ventorrillo/internal/infrastructure/websocket"
	"github.com/yohan201609-oss/El-ventorrillo/pkg/errors"
)

type ChatUseCase struct {
	convRepo    repository.ConversationRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	wsManager   *ws.Manager
	rateLimiter *ratelimit.RateLimiter
}

func NewChatUseCase(
	convRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	wsManager *ws.Manager,
) *ChatUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ChatUseCase{
		convRepo:    convRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		wsManager:   wsManager,
		rateLimiter: rateLimiter,
	}
}

type CreateConversationInput struct {
	RecipientID string
	ProductID   string
}

type SendMessageInput struct {
	ConversationID string
	Text           string
}

// CreateOrGetConversation returns the conversation between the caller
// and the recipient, creating it when it does not exist yet. The
// operation is idempotent: concurrent calls for the same pair converge
// on one record and the first writer's snapshot fields win.
func (uc *ChatUseCase) CreateOrGetConversation(ctx context.Context, userID string, input CreateConversationInput) (*entity.Conversation, error) {
	convID, err := entity.DeriveConversationID(userID, input.RecipientID)
	if err != nil {
		return nil, err
	}

	existing, err := uc.convRepo.GetByID(ctx, convID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		log.Printf("CreateOrGetConversation Error: Failed to look up conversation %s: %v", convID, err)
		return nil, err
	}

	// Only actual creation consumes a token: reopening an existing
	// conversation must stay repeatable without limit.
	allowed, waitTime := uc.rateLimiter.Allow(userID, "create_chat")
	if !allowed {
		log.Printf("CreateOrGetConversation Rate Limited: User %s must wait %v", userID, waitTime)
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before starting another conversation", waitTime)
	}

	caller, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("CreateOrGetConversation Error: Caller %s not found: %v", userID, err)
		return nil, errors.NotFound("User not found", err)
	}

	recipient, err := uc.userRepo.GetByID(ctx, input.RecipientID)
	if err != nil {
		log.Printf("CreateOrGetConversation Error: Recipient %s not found: %v", input.RecipientID, err)
		return nil, errors.NotFound("Recipient not found", err)
	}

	conv := &entity.Conversation{
		ID:           convID,
		Participants: []string{userID, input.RecipientID},
		ParticipantNames: map[string]string{
			userID:            caller.DisplayName,
			input.RecipientID: recipient.DisplayName,
		},
		UnreadCount: map[string]int{
			userID:            0,
			input.RecipientID: 0,
		},
	}

	if input.ProductID != "" {
		product, err := uc.productRepo.GetByID(ctx, input.ProductID)
		if err != nil {
			log.Printf("CreateOrGetConversation Error: Product %s not found: %v", input.ProductID, err)
			return nil, errors.NotFound("Product not found", err)
		}
		conv.ProductID = product.ID
		conv.ProductTitle = product.Title
		if len(product.ImageURLs) > 0 {
			conv.ProductImageURL = product.ImageURLs[0]
		}
	}

	if err := uc.convRepo.Create(ctx, conv); err != nil {
		// A concurrent caller created it first; their record wins.
		if errors.Is(err, "CONFLICT") {
			return uc.convRepo.GetByID(ctx, convID)
		}
		log.Printf("CreateOrGetConversation Error: Failed to create conversation %s: %v", convID, err)
		return nil, err
	}

	return conv, nil
}

func (uc *ChatUseCase) GetConversation(ctx context.Context, userID, conversationID string) (*entity.Conversation, error) {
	conv, err := uc.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if !conv.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant of this conversation", nil)
	}

	return conv, nil
}

// SendMessage appends a message to the conversation and updates its
// summary fields in the same atomic write. Recipients connected over
// WebSocket are notified after the commit succeeds.
func (uc *ChatUseCase) SendMessage(ctx context.Context, userID string, input SendMessageInput) (*entity.Message, error) {
	allowed, waitTime := uc.rateLimiter.Allow(userID, "send_message")
	if !allowed {
		log.Printf("SendMessage Rate Limited: User %s must wait %v", userID, waitTime)
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before sending another message", waitTime)
	}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, errors.BadRequest("Message text cannot be empty", nil)
	}

	conv, err := uc.convRepo.GetByID(ctx, input.ConversationID)
	if err != nil {
		return nil, err
	}

	if !conv.HasParticipant(userID) {
		log.Printf("SendMessage Error: User %s is not a participant of conversation %s", userID, input.ConversationID)
		return nil, errors.Forbidden("You are not a participant of this conversation", nil)
	}

	senderName := conv.ParticipantNames[userID]
	if sender, err := uc.userRepo.GetByID(ctx, userID); err == nil && sender.DisplayName != "" {
		senderName = sender.DisplayName
	}

	message := &entity.Message{
		SenderID:   userID,
		SenderName: senderName,
		Text:       text,
		Read:       false,
	}

	if err := uc.convRepo.AppendMessage(ctx, conv, message); err != nil {
		log.Printf("SendMessage Error: Failed to append message to conversation %s: %v", input.ConversationID, err)
		return nil, err
	}

	uc.wsManager.NotifyUsers([]string{conv.OtherParticipant(userID)}, ws.Event{
		Type:           "message",
		ConversationID: conv.ID,
		Payload:        message,
	})

	return message, nil
}

// MarkConversationRead flips the caller's unread messages to read and
// zeroes their counter. Failures are logged and swallowed: a missed
// read receipt must never surface as an error to the viewer.
func (uc *ChatUseCase) MarkConversationRead(ctx context.Context, userID, conversationID string) {
	conv, err := uc.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		log.Printf("MarkConversationRead: Failed to load conversation %s: %v", conversationID, err)
		return
	}

	if !conv.HasParticipant(userID) {
		log.Printf("MarkConversationRead: User %s is not a participant of conversation %s", userID, conversationID)
		return
	}

	if err := uc.convRepo.MarkMessagesRead(ctx, conversationID, userID); err != nil {
		log.Printf("MarkConversationRead: Failed to mark conversation %s read for %s: %v", conversationID, userID, err)
	}
}

// ListConversations returns the caller's conversation list, most
// recent first.
func (uc *ChatUseCase) ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	return uc.convRepo.ListByUserID(ctx, userID)
}

// GetMessages returns a conversation's messages in chronological order
// after verifying the caller is a participant.
func (uc *ChatUseCase) GetMessages(ctx context.Context, userID, conversationID string) ([]*entity.Message, error) {
	if _, err := uc.GetConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return uc.convRepo.ListMessages(ctx, conversationID)
}

// ListenConversations streams the caller's conversation list, most
// recent first. Returns a cancel func that stops delivery.
func (uc *ChatUseCase) ListenConversations(ctx context.Context, userID string, fn func([]*entity.Conversation)) (func(), error) {
	return uc.convRepo.ListenByUserID(ctx, userID, fn)
}

// ListenMessages streams a conversation's messages in chronological
// order after verifying the caller is a participant.
func (uc *ChatUseCase) ListenMessages(ctx context.Context, userID, conversationID string, fn func([]*entity.Message)) (func(), error) {
	conv, err := uc.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if !conv.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant of this conversation", nil)
	}

	return uc.convRepo.ListenMessages(ctx, conversationID, fn)
}

// UnreadCount returns the caller's pending message count for one
// conversation.
func (uc *ChatUseCase) UnreadCount(ctx context.Context, userID, conversationID string) (int, error) {
	conv, err := uc.GetConversation(ctx, userID, conversationID)
	if err != nil {
		return 0, err
	}
	return conv.UnreadCount[userID], nil
}
