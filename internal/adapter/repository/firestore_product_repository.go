package repository

import (
	"context"

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

type firestoreProductRepository struct {
	client *firestore.Client
}

func NewFirestoreProductRepository(client *firestore.Client) repository.ProductRepository {
	return &firestoreProductRepository{
		client: client,
	}
}

func (r *firestoreProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}

	_, err := r.client.Collection("products").Doc(product.ID).Set(ctx, product)
	if err != nil {
		return errors.WriteFailed("Failed to create product", err)
	}

	return nil
}

func (r *firestoreProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	doc, err := r.client.Collection("products").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Product", err)
		}
		return nil, errors.Internal("Failed to get product", err)
	}

	return docToProduct(doc), nil
}

func (r *firestoreProductRepository) List(ctx context.Context, limit, offset int) ([]*entity.Product, int64, error) {
	query := r.client.Collection("products").OrderBy("createdAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		logger.Error("Firestore error while listing products: %v", err)
		return nil, 0, errors.Internal("Failed to list products", err)
	}

	total := int64(len(allDocs))

	start := offset
	if start > len(allDocs) {
		start = len(allDocs)
	}
	end := len(allDocs)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	products := make([]*entity.Product, 0, end-start)
	for i := start; i < end; i++ {
		products = append(products, docToProduct(allDocs[i]))
	}

	return products, total, nil
}

func (r *firestoreProductRepository) ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Product, error) {
	query := r.client.Collection("products").
		Where("sellerId", "==", sellerID).
		OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	var products []*entity.Product
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while listing products for seller %s: %v", sellerID, err)
			return nil, errors.Internal("Failed to list seller products", err)
		}
		products = append(products, docToProduct(doc))
	}

	return products, nil
}

func (r *firestoreProductRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("products").Doc(id).Delete(ctx)
	if err != nil {
		return errors.WriteFailed("Failed to delete product", err)
	}
	return nil
}

func docToProduct(doc *firestore.DocumentSnapshot) *entity.Product {
	data := doc.Data()
	product := &entity.Product{
		ID:        doc.Ref.ID,
		CreatedAt: timeutil.ToTime(data["createdAt"]),
	}

	if v, ok := data["title"].(string); ok {
		product.Title = v
	}
	if v, ok := data["description"].(string); ok {
		product.Description = v
	}
	switch n := data["price"].(type) {
	case int64:
		product.Price = float64(n)
	case float64:
		product.Price = n
	}
	if v, ok := data["imageUrls"].([]interface{}); ok {
		for _, u := range v {
			if s, ok := u.(string); ok {
				product.ImageURLs = append(product.ImageURLs, s)
			}
		}
	}
	if v, ok := data["type"].(string); ok {
		product.Type = v
	}
	if v, ok := data["category"].(string); ok {
		product.Category = v
	}
	if v, ok := data["location"].(string); ok {
		product.Location = v
	}
	if v, ok := data["sellerId"].(string); ok {
		product.SellerID = v
	}
	if v, ok := data["sellerName"].(string); ok {
		product.SellerName = v
	}
	if v, ok := data["isNew"].(bool); ok {
		product.IsNew = v
	}

	return product
}
