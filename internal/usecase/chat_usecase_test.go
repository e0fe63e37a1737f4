package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/entity"
	ws "github.com/yohan201609-oss/El-ventorrillo/internal/infrastructure/websocket"
	"github.com/yohan201609-oss/El-ventorrillo/pkg/errors"
)

type memoryConversationRepo struct {
	mu            sync.Mutex
	conversations map[string]*entity.Conversation
	messages      map[string][]*entity.Message
	markReadErr   error
	markReadCalls int
}

func newMemoryConversationRepo() *memoryConversationRepo {
	return &memoryConversationRepo{
		conversations: make(map[string]*entity.Conversation),
		messages:      make(map[string][]*entity.Message),
	}
}

func (r *memoryConversationRepo) Create(ctx context.Context, conv *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conversations[conv.ID]; exists {
		return errors.Conflict("Conversation already exists")
	}

	stored := *conv
	stored.CreatedAt = time.Now()
	stored.LastMessageAt = stored.CreatedAt
	r.conversations[conv.ID] = &stored
	return nil
}

func (r *memoryConversationRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	copied := *conv
	return &copied, nil
}

func (r *memoryConversationRepo) ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entity.Conversation
	for _, conv := range r.conversations {
		if conv.HasParticipant(userID) {
			copied := *conv
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].LastMessageAt.After(result[j].LastMessageAt)
	})
	return result, nil
}

func (r *memoryConversationRepo) ListenByUserID(ctx context.Context, userID string, fn func([]*entity.Conversation)) (func(), error) {
	conversations, _ := r.ListByUserID(ctx, userID)
	fn(conversations)
	return func() {}, nil
}

func (r *memoryConversationRepo) AppendMessage(ctx context.Context, conv *entity.Conversation, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.conversations[conv.ID]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}

	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	copied := *message
	r.messages[conv.ID] = append(r.messages[conv.ID], &copied)

	stored.LastMessage = message.Text
	stored.LastMessageAt = message.CreatedAt
	if stored.UnreadCount == nil {
		stored.UnreadCount = make(map[string]int)
	}
	for _, p := range stored.Participants {
		if p != message.SenderID {
			stored.UnreadCount[p]++
		}
	}
	return nil
}

func (r *memoryConversationRepo) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msgs := make([]*entity.Message, 0, len(r.messages[conversationID]))
	for _, m := range r.messages[conversationID] {
		copied := *m
		msgs = append(msgs, &copied)
	}
	return msgs, nil
}

func (r *memoryConversationRepo) ListenMessages(ctx context.Context, conversationID string, fn func([]*entity.Message)) (func(), error) {
	msgs, _ := r.ListMessages(ctx, conversationID)
	fn(msgs)
	return func() {}, nil
}

func (r *memoryConversationRepo) MarkMessagesRead(ctx context.Context, conversationID, viewerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.markReadCalls++
	if r.markReadErr != nil {
		return r.markReadErr
	}

	for _, m := range r.messages[conversationID] {
		if m.SenderID != viewerID {
			m.Read = true
		}
	}
	if conv, ok := r.conversations[conversationID]; ok {
		if conv.UnreadCount == nil {
			conv.UnreadCount = make(map[string]int)
		}
		conv.UnreadCount[viewerID] = 0
	}
	return nil
}

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemoryUserRepo(users ...*entity.User) *memoryUserRepo {
	repo := &memoryUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *memoryUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memoryUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *memoryUserRepo) UpdateDisplayName(ctx context.Context, id, displayName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		user.DisplayName = displayName
	}
	return nil
}

func (r *memoryUserRepo) UpdatePhotoURL(ctx context.Context, id, photoURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		user.PhotoURL = photoURL
	}
	return nil
}

type memoryProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
}

func newMemoryProductRepo(products ...*entity.Product) *memoryProductRepo {
	repo := &memoryProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (r *memoryProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = product
	return nil
}

func (r *memoryProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	return product, nil
}

func (r *memoryProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Product
	for _, p := range r.products {
		result = append(result, p)
	}
	return result, int64(len(result)), nil
}

func (r *memoryProductRepo) ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Product
	for _, p := range r.products {
		if p.SellerID == sellerID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *memoryProductRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func newTestChatUseCase(convRepo *memoryConversationRepo, users []*entity.User, products []*entity.Product) *ChatUseCase {
	return NewChatUseCase(
		convRepo,
		newMemoryUserRepo(users...),
		newMemoryProductRepo(products...),
		ws.NewManager(),
	)
}

func testUsers() []*entity.User {
	return []*entity.User{
		{ID: "alice", Email: "alice@example.com", DisplayName: "Alice"},
		{ID: "bob", Email: "bob@example.com", DisplayName: "Bob"},
		{ID: "carol", Email: "carol@example.com", DisplayName: "Carol"},
	}
}

func TestCreateOrGetConversationIsIdempotent(t *testing.T) {
	convRepo := newMemoryConversationRepo()
	uc := newTestChatUseCase(convRepo, testUsers(), nil)
	ctx := context.Background()

	first, err := uc.CreateOrGetConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)
	assert.Equal(t, "alice_bob", first.ID)
	assert.Equal(t, "Alice", first.ParticipantNames["alice"])
	assert.Equal(t, "Bob", first.ParticipantNames["bob"])

	// Same pair from the other side resolves to the same record.
	second, err := uc.CreateOrGetConversation(ctx, "bob", CreateConversationInput{RecipientID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Participants, second.Participants)
	assert.Equal(t, first.ParticipantNames, second.ParticipantNames)

	// Repeated calls never touch the stored record.
	third, err := uc.CreateOrGetConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)
	assert.Equal(t, second.CreatedAt, third.CreatedAt)

	assert.Len(t, convRepo.conversations, 1)
}

func TestCreateOrGetConversationRateLimitsOnlyCreates(t *testing.T) {
	users := testUsers()
	for i := 0; i < 10; i++ {
		users = append(users, &entity.User{
			ID:          fmt.Sprintf("seller%d", i),
			Email:       fmt.Sprintf("seller%d@example.com", i),
			DisplayName: fmt.Sprintf("Seller %d", i),
		})
	}
	convRepo := newMemoryConversationRepo()
	uc := newTestChatUseCase(convRepo, users, nil)
	ctx := context.Background()

	first, err := uc.CreateOrGetConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	// Reopening an existing conversation never consumes a token.
	for i := 0; i < 10; i++ {
		conv, err := uc.CreateOrGetConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
		require.NoError(t, err)
		assert.Equal(t, first.ID, conv.ID)
	}

	// Only genuinely new conversations count against the hourly limit.
	for i := 0; i < 4; i++ {
		_, err := uc.CreateOrGetConversation(ctx, "alice", CreateConversationInput{
			RecipientID: fmt.Sprintf("seller%d", i),
		})
		require.NoError(t, err)
	}

	_, err = uc.CreateOrGetConversation(ctx, "alice", CreateConversationInput{RecipientID: "seller5"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "TOO_MANY_REQUESTS"))

	// Existing conversations stay reachable even while rate limited.
	conv, err := uc.CreateOrGetConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, conv.ID)
}

func TestCreateOrGetConversationSnapshotsProduct(t *testing.T) {
	product := &entity.Product{
		ID:        "p1",
		Title:     "Collar de ámbar",
		ImageURLs: []string{"https://storage.googleapis.com/bucket/p1.jpg"},
		SellerID:  "bob",
	}
	uc := newTestChatUseCase(newMemoryConversationRepo(), testUsers(), []*entity.Product{product})

	conv, err := uc.CreateOrGetConversation(context.Background(), "alice", CreateConversationInput{
		RecipientID: "bob",
		ProductID:   "p1",
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", conv.ProductID)
	assert.Equal(t, "Collar de ámbar", conv.ProductTitle)
	assert.Equal(t, "https://storage.googleapis.com/bucket/p1.jpg", conv.ProductImageURL)
}

func TestCreateOrGetConversationRejectsSelf(t *testing.T) {
	uc := newTestChatUseCase(newMemoryConversationRepo(), testUsers(), nil)

	_, err := uc.CreateOrGetConversation(context.Background(), "alice", CreateConversationInput{RecipientID: "alice"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestCreateOrGetConversationUnknownRecipient(t *testing.T) {
	uc := newTestChatUseCase(newMemoryConversationRepo(), testUsers(), nil)

	_, err := uc.CreateOrGetConversation(context.Background(), "alice", CreateConversationInput{RecipientID: "nobody"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestSendMessageUpdatesSummaryAndUnread(t *testing.T) {
	convRepo := newMemoryConversationRepo()
	uc := newTestChatUseCase(convRepo, testUsers(), nil)
	ctx := context.Background()

	conv, err := uc.CreateOrGetConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	msg, err := uc.SendMessage(ctx, "alice", SendMessageInput{ConversationID: conv.ID, Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Text)
	assert.Equal(t, "alice", msg.SenderID)
	assert.Equal(t, "Alice", msg.SenderName)
	assert.False(t, msg.Read)

	updated, err := uc.GetConversation(ctx, "bob", conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.LastMessage)
	assert.Equal(t, 1, updated.UnreadCount["bob"])
	assert.Equal(t, 0, updated.UnreadCount["alice"])
}

func TestSendMessageTrimsAndRejectsWhitespace(t *testing.T) {
	convRepo := newMemoryConversationRepo()
	uc := newTestChatUseCase(convRepo, testUsers(), nil)
	ctx := context.Background()

	conv, err := uc.CreateOrGetConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, "alice", SendMessageInput{ConversationID: conv.ID, Text: "   \t\n"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
	assert.Empty(t, convRepo.messages[conv.ID])

	msg, err := uc.SendMessage(ctx, "alice", SendMessageInput{ConversationID: conv.ID, Text: "  hola  "})
	require.NoError(t, err)
	assert.Equal(t, "hola", msg.Text)
}

func TestSendMessageRequiresParticipant(t *testing.T) {
	convRepo := newMemoryConversationRepo()
	uc := newTestChatUseCase(convRepo, testUsers(), nil)
	ctx := context.Background()

	conv, err := uc.CreateOrGetConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, "carol", SendMessageInput{ConversationID: conv.ID, Text: "hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
	assert.Empty(t, convRepo.messages[conv.ID])
}

func TestMarkConversationRead(t *testing.T) {
	convRepo := newMemoryConversationRepo()
	uc := newTestChatUseCase(convRepo, testUsers(), nil)
	ctx := context.Background()

	conv, err := uc.CreateOrGetConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, "alice", SendMessageInput{ConversationID: conv.ID, Text: "first"})
	require.NoError(t, err)
	_, err = uc.SendMessage(ctx, "alice", SendMessageInput{ConversationID: conv.ID, Text: "second"})
	require.NoError(t, err)

	uc.MarkConversationRead(ctx, "bob", conv.ID)

	count, err := uc.UnreadCount(ctx, "bob", conv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	messages, err := uc.GetMessages(ctx, "bob", conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	for _, m := range messages {
		assert.True(t, m.Read)
	}

	// Marking again is a harmless no-op.
	uc.MarkConversationRead(ctx, "bob", conv.ID)
	count, err = uc.UnreadCount(ctx, "bob", conv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestMarkConversationReadSwallowsErrors(t *testing.T) {
	convRepo := newMemoryConversationRepo()
	uc := newTestChatUseCase(convRepo, testUsers(), nil)
	ctx := context.Background()

	conv, err := uc.CreateOrGetConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	convRepo.markReadErr = errors.WriteFailed("backend down", nil)
	uc.MarkConversationRead(ctx, "bob", conv.ID)
	assert.Equal(t, 1, convRepo.markReadCalls)
}

func TestMarkConversationReadSkipsNonParticipant(t *testing.T) {
	convRepo := newMemoryConversationRepo()
	uc := newTestChatUseCase(convRepo, testUsers(), nil)
	ctx := context.Background()

	conv, err := uc.CreateOrGetConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	uc.MarkConversationRead(ctx, "carol", conv.ID)
	assert.Equal(t, 0, convRepo.markReadCalls)
}

func TestListConversationsMostRecentFirst(t *testing.T) {
	convRepo := newMemoryConversationRepo()
	uc := newTestChatUseCase(convRepo, testUsers(), nil)
	ctx := context.Background()

	withBob, err := uc.CreateOrGetConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)
	withCarol, err := uc.CreateOrGetConversation(ctx, "alice", CreateConversationInput{RecipientID: "carol"})
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, "alice", SendMessageInput{ConversationID: withCarol.ID, Text: "hola carol"})
	require.NoError(t, err)

	list, err := uc.ListConversations(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, withCarol.ID, list[0].ID)

	// New activity in the other thread moves it to the front.
	time.Sleep(time.Millisecond)
	_, err = uc.SendMessage(ctx, "alice", SendMessageInput{ConversationID: withBob.ID, Text: "hola bob"})
	require.NoError(t, err)

	list, err = uc.ListConversations(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, withBob.ID, list[0].ID)
}

func TestGetMessagesRequiresParticipant(t *testing.T) {
	convRepo := newMemoryConversationRepo()
	uc := newTestChatUseCase(convRepo, testUsers(), nil)
	ctx := context.Background()

	conv, err := uc.CreateOrGetConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	_, err = uc.GetMessages(ctx, "carol", conv.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = uc.ListenMessages(ctx, "carol", conv.ID, func([]*entity.Message) {})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestListenMessagesDeliversSnapshot(t *testing.T) {
	convRepo := newMemoryConversationRepo()
	uc := newTestChatUseCase(convRepo, testUsers(), nil)
	ctx := context.Background()

	conv, err := uc.CreateOrGetConversation(ctx, "alice", CreateConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, "alice", SendMessageInput{ConversationID: conv.ID, Text: "hello"})
	require.NoError(t, err)

	var got []*entity.Message
	cancel, err := uc.ListenMessages(ctx, "bob", conv.ID, func(msgs []*entity.Message) {
		got = msgs
	})
	require.NoError(t, err)
	defer cancel()

	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Text)
}
