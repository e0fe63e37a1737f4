package repository

import (
	"context"

	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	UpdateDisplayName(ctx context.Context, id, displayName string) error
	UpdatePhotoURL(ctx context.Context, id, photoURL string) error
}
