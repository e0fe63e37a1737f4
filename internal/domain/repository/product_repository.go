package repository

import (
	"context"

	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/entity"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, int64, error)
	ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
