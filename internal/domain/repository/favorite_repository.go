package repository

import (
	"context"

	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/entity"
)

type FavoriteRepository interface {
	Add(ctx context.Context, favorite *entity.Favorite) error
	Remove(ctx context.Context, userID, productID string) error
	Exists(ctx context.Context, userID, productID string) (bool, error)
	ListProductIDs(ctx context.Context, userID string) ([]string, error)
}
