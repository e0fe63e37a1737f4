package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/entity"
	"github.com/yohan201609-oss/El-ventorrillo/pkg/errors"
)

func newTestProductUseCase(products ...*entity.Product) *ProductUseCase {
	return NewProductUseCase(
		newMemoryProductRepo(products...),
		newMemoryUserRepo(testUsers()...),
		nil,
	)
}

func TestCreateProductSnapshotsSellerName(t *testing.T) {
	uc := newTestProductUseCase()

	product, err := uc.CreateProduct(context.Background(), "alice", CreateProductInput{
		Title:    "Pulsera de larimar",
		Price:    1200,
		Type:     entity.ProductTypeArtesanal,
		Category: entity.CategoryJoyeria,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", product.SellerID)
	assert.Equal(t, "Alice", product.SellerName)
	assert.NotEmpty(t, product.ID)
}

func TestCreateProductValidation(t *testing.T) {
	uc := newTestProductUseCase()
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"empty title", CreateProductInput{Type: entity.ProductTypeArtesanal, Category: entity.CategoryOtros}},
		{"negative price", CreateProductInput{Title: "x", Price: -1, Type: entity.ProductTypeArtesanal, Category: entity.CategoryOtros}},
		{"bad type", CreateProductInput{Title: "x", Type: "nuevo", Category: entity.CategoryOtros}},
		{"bad category", CreateProductInput{Title: "x", Type: entity.ProductTypeArtesanal, Category: "vehiculos"}},
		{"too many images", CreateProductInput{Title: "x", Type: entity.ProductTypeArtesanal, Category: entity.CategoryOtros,
			ImageURLs: []string{"a", "b", "c", "d", "e", "f"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateProduct(ctx, "alice", tc.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, "BAD_REQUEST"))
		})
	}
}

func TestDeleteProductOwnershipCheck(t *testing.T) {
	product := &entity.Product{ID: "p1", Title: "Silla", SellerID: "bob"}
	uc := newTestProductUseCase(product)
	ctx := context.Background()

	err := uc.DeleteProduct(ctx, "alice", "p1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	require.NoError(t, uc.DeleteProduct(ctx, "bob", "p1"))

	_, err = uc.GetProduct(ctx, "p1")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}
