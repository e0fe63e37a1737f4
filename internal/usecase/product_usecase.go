package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/entity"
	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/repository"
	"github.com/yohan201609-oss/El-ventorrillo/internal/infrastructure/ratelimit"
	"github.com/yohan201609-oss/El-ventorrillo/internal/infrastructure/storage"
	"github.com/yohan201609-oss/El-ventorrillo/pkg/errors"
)

var validCategories = map[string]bool{
	entity.CategoryJoyeria:          true,
	entity.CategoryDulces:           true,
	entity.CategoryArteTaino:        true,
	entity.CategoryPinturas:         true,
	entity.CategoryArtesaniaGeneral: true,
	entity.CategoryRopa:             true,
	entity.CategoryElectronica:      true,
	entity.CategoryMuebles:          true,
	entity.CategoryLibros:           true,
	entity.CategoryDeportes:         true,
	entity.CategoryOtros:            true,
}

type ProductUseCase struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	storage     *storage.CloudStorageClient
	rateLimiter *ratelimit.RateLimiter
}

func NewProductUseCase(
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	storageClient *storage.CloudStorageClient,
) *ProductUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ProductUseCase{
		productRepo: productRepo,
		userRepo:    userRepo,
		storage:     storageClient,
		rateLimiter: rateLimiter,
	}
}

type CreateProductInput struct {
	Title       string
	Description string
	Price       float64
	ImageURLs   []string
	Type        string
	Category    string
	Location    string
	IsNew       bool
}

func (uc *ProductUseCase) CreateProduct(ctx context.Context, sellerID string, input CreateProductInput) (*entity.Product, error) {
	allowed, waitTime := uc.rateLimiter.Allow(sellerID, "create_product")
	if !allowed {
		log.Printf("CreateProduct Rate Limited: User %s must wait %v", sellerID, waitTime)
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before publishing another listing", waitTime)
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.BadRequest("Title is required", nil)
	}
	if input.Price < 0 {
		return nil, errors.BadRequest("Price cannot be negative", nil)
	}
	if input.Type != entity.ProductTypeArtesanal && input.Type != entity.ProductTypeSegundaMano {
		return nil, errors.BadRequest("Invalid product type", nil)
	}
	if !validCategories[input.Category] {
		return nil, errors.BadRequest("Invalid product category", nil)
	}
	if len(input.ImageURLs) > storage.MaxImagesPerProduct {
		return nil, errors.BadRequest("Too many images for one listing", nil)
	}

	seller, err := uc.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}

	product := &entity.Product{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		ImageURLs:   input.ImageURLs,
		Type:        input.Type,
		Category:    input.Category,
		Location:    strings.TrimSpace(input.Location),
		SellerID:    sellerID,
		SellerName:  seller.DisplayName,
		IsNew:       input.IsNew,
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		log.Printf("CreateProduct Error: Failed to create product for %s: %v", sellerID, err)
		return nil, err
	}

	return product, nil
}

func (uc *ProductUseCase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return uc.productRepo.GetByID(ctx, id)
}

func (uc *ProductUseCase) ListProducts(ctx context.Context, limit, offset int) ([]*entity.Product, int64, error) {
	return uc.productRepo.List(ctx, limit, offset)
}

func (uc *ProductUseCase) ListMyProducts(ctx context.Context, sellerID string) ([]*entity.Product, error) {
	return uc.productRepo.ListBySellerID(ctx, sellerID)
}

// DeleteProduct removes the listing and best-effort deletes its stored
// images. Only the seller may delete their own listing.
func (uc *ProductUseCase) DeleteProduct(ctx context.Context, userID, productID string) error {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	if product.SellerID != userID {
		return errors.Forbidden("You can only delete your own listings", nil)
	}

	if err := uc.productRepo.Delete(ctx, productID); err != nil {
		return err
	}

	for _, url := range product.ImageURLs {
		if err := uc.storage.DeleteFile(ctx, url); err != nil {
			log.Printf("DeleteProduct: Failed to delete image %s: %v", url, err)
		}
	}

	return nil
}
