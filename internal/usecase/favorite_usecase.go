package usecase

import (
	"context"
	"log"

	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/entity"
	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/repository"
)

type FavoriteUseCase struct {
	favoriteRepo repository.FavoriteRepository
	productRepo  repository.ProductRepository
}

func NewFavoriteUseCase(favoriteRepo repository.FavoriteRepository, productRepo repository.ProductRepository) *FavoriteUseCase {
	return &FavoriteUseCase{
		favoriteRepo: favoriteRepo,
		productRepo:  productRepo,
	}
}

// AddFavorite saves a product for the user. Saving the same product
// again is a no-op.
func (uc *FavoriteUseCase) AddFavorite(ctx context.Context, userID, productID string) error {
	if _, err := uc.productRepo.GetByID(ctx, productID); err != nil {
		return err
	}

	favorite := &entity.Favorite{
		ID:        entity.FavoriteID(userID, productID),
		UserID:    userID,
		ProductID: productID,
	}

	return uc.favoriteRepo.Add(ctx, favorite)
}

func (uc *FavoriteUseCase) RemoveFavorite(ctx context.Context, userID, productID string) error {
	return uc.favoriteRepo.Remove(ctx, userID, productID)
}

func (uc *FavoriteUseCase) IsFavorite(ctx context.Context, userID, productID string) (bool, error) {
	return uc.favoriteRepo.Exists(ctx, userID, productID)
}

// ListFavorites resolves the user's saved product IDs into products.
// Listings deleted since being saved are skipped.
func (uc *FavoriteUseCase) ListFavorites(ctx context.Context, userID string) ([]*entity.Product, error) {
	productIDs, err := uc.favoriteRepo.ListProductIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	products := make([]*entity.Product, 0, len(productIDs))
	for _, id := range productIDs {
		product, err := uc.productRepo.GetByID(ctx, id)
		if err != nil {
			log.Printf("ListFavorites: Skipping product %s: %v", id, err)
			continue
		}
		products = append(products, product)
	}

	return products, nil
}
