package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/entity"
	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/repository"
	"github.com/yohan201609-oss/El-ventorrillo/pkg/errors"
	"github.com/yohan201609-oss/El-ventorrillo/pkg/logger"
)

type firestoreFavoriteRepository struct {
	client *firestore.Client
}

func NewFirestoreFavoriteRepository(client *firestore.Client) repository.FavoriteRepository {
	return &firestoreFavoriteRepository{
		client: client,
	}
}

func (r *firestoreFavoriteRepository) Add(ctx context.Context, favorite *entity.Favorite) error {
	if favorite.ID == "" {
		favorite.ID = entity.FavoriteID(favorite.UserID, favorite.ProductID)
	}

	// Set rather than Create: re-saving an already saved product is a
	// no-op, not an error.
	_, err := r.client.Collection("favorites").Doc(favorite.ID).Set(ctx, favorite)
	if err != nil {
		return errors.WriteFailed("Failed to add favorite", err)
	}

	return nil
}

func (r *firestoreFavoriteRepository) Remove(ctx context.Context, userID, productID string) error {
	_, err := r.client.Collection("favorites").Doc(entity.FavoriteID(userID, productID)).Delete(ctx)
	if err != nil {
		return errors.WriteFailed("Failed to remove favorite", err)
	}
	return nil
}

func (r *firestoreFavoriteRepository) Exists(ctx context.Context, userID, productID string) (bool, error) {
	_, err := r.client.Collection("favorites").Doc(entity.FavoriteID(userID, productID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, errors.Internal("Failed to check favorite", err)
	}
	return true, nil
}

func (r *firestoreFavoriteRepository) ListProductIDs(ctx context.Context, userID string) ([]string, error) {
	iter := r.client.Collection("favorites").Where("userId", "==", userID).Documents(ctx)

	var productIDs []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while listing favorites for user %s: %v", userID, err)
			return nil, errors.Internal("Failed to list favorites", err)
		}
		if id, ok := doc.Data()["productId"].(string); ok {
			productIDs = append(productIDs, id)
		}
	}

	return productIDs, nil
}
