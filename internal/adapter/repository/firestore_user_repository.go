package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/entity"
	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/repository"
	"github.com/yohan201609-oss/El-ventorrillo/pkg/errors"
	"github.com/yohan201609-oss/El-ventorrillo/pkg/timeutil"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	_, err := r.client.Collection("users").Doc(user.ID).Set(ctx, user)
	if err != nil {
		return errors.Internal("Failed to create user profile", err)
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection("users").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	data := doc.Data()
	user := &entity.User{
		ID:        doc.Ref.ID,
		CreatedAt: timeutil.ToTime(data["createdAt"]),
	}
	if v, ok := data["email"].(string); ok {
		user.Email = v
	}
	if v, ok := data["displayName"].(string); ok {
		user.DisplayName = v
	}
	if v, ok := data["photoURL"].(string); ok {
		user.PhotoURL = v
	}

	return user, nil
}

func (r *firestoreUserRepository) UpdateDisplayName(ctx context.Context, id, displayName string) error {
	_, err := r.client.Collection("users").Doc(id).Set(ctx, map[string]interface{}{
		"displayName": displayName,
	}, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to update display name", err)
	}
	return nil
}

func (r *firestoreUserRepository) UpdatePhotoURL(ctx context.Context, id, photoURL string) error {
	_, err := r.client.Collection("users").Doc(id).Set(ctx, map[string]interface{}{
		"photoURL": photoURL,
	}, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to update user photo", err)
	}
	return nil
}
