package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/entity"
	"github.com/yohan201609-oss/El-ventorrillo/pkg/errors"
)

type memoryFavoriteRepo struct {
	mu        sync.Mutex
	favorites map[string]*entity.Favorite
}

func newMemoryFavoriteRepo() *memoryFavoriteRepo {
	return &memoryFavoriteRepo{favorites: make(map[string]*entity.Favorite)}
}

func (r *memoryFavoriteRepo) Add(ctx context.Context, favorite *entity.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.favorites[favorite.ID] = favorite
	return nil
}

func (r *memoryFavoriteRepo) Remove(ctx context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.favorites, entity.FavoriteID(userID, productID))
	return nil
}

func (r *memoryFavoriteRepo) Exists(ctx context.Context, userID, productID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.favorites[entity.FavoriteID(userID, productID)]
	return ok, nil
}

func (r *memoryFavoriteRepo) ListProductIDs(ctx context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, f := range r.favorites {
		if f.UserID == userID {
			ids = append(ids, f.ProductID)
		}
	}
	return ids, nil
}

func TestAddFavoriteIsIdempotent(t *testing.T) {
	favRepo := newMemoryFavoriteRepo()
	uc := NewFavoriteUseCase(favRepo, newMemoryProductRepo(
		&entity.Product{ID: "p1", Title: "Cuadro", SellerID: "bob"},
	))
	ctx := context.Background()

	require.NoError(t, uc.AddFavorite(ctx, "alice", "p1"))
	require.NoError(t, uc.AddFavorite(ctx, "alice", "p1"))
	assert.Len(t, favRepo.favorites, 1)

	saved, err := uc.IsFavorite(ctx, "alice", "p1")
	require.NoError(t, err)
	assert.True(t, saved)
}

func TestAddFavoriteUnknownProduct(t *testing.T) {
	uc := NewFavoriteUseCase(newMemoryFavoriteRepo(), newMemoryProductRepo())

	err := uc.AddFavorite(context.Background(), "alice", "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestListFavoritesSkipsDeletedProducts(t *testing.T) {
	favRepo := newMemoryFavoriteRepo()
	productRepo := newMemoryProductRepo(
		&entity.Product{ID: "p1", Title: "Cuadro", SellerID: "bob"},
		&entity.Product{ID: "p2", Title: "Mesa", SellerID: "bob"},
	)
	uc := NewFavoriteUseCase(favRepo, productRepo)
	ctx := context.Background()

	require.NoError(t, uc.AddFavorite(ctx, "alice", "p1"))
	require.NoError(t, uc.AddFavorite(ctx, "alice", "p2"))

	require.NoError(t, productRepo.Delete(ctx, "p2"))

	products, err := uc.ListFavorites(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
}
