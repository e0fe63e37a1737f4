package usecase

import (
	"context"

	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/entity"
	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/repository"
	"github.com/yohan201609-oss/El-ventorrillo/pkg/errors"
)

type UserUseCase struct {
	userRepo     repository.UserRepository
	firebaseAuth FirebaseAuthClient
}

func NewUserUseCase(userRepo repository.UserRepository, firebaseAuth FirebaseAuthClient) *UserUseCase {
	return &UserUseCase{
		userRepo:     userRepo,
		firebaseAuth: firebaseAuth,
	}
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}
	return user, nil
}

// UpdateDisplayName changes the name in Firebase Auth and the profile
// document. Existing conversation and product snapshots keep the old
// name; only new records pick up the change.
func (uc *UserUseCase) UpdateDisplayName(ctx context.Context, userID, displayName string) error {
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return errors.NotFound("User", err)
	}

	if err := uc.firebaseAuth.UpdateDisplayName(ctx, userID, displayName); err != nil {
		return errors.Internal("Failed to update display name", err)
	}

	return uc.userRepo.UpdateDisplayName(ctx, userID, displayName)
}

func (uc *UserUseCase) UpdatePhotoURL(ctx context.Context, userID, photoURL string) error {
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return errors.NotFound("User", err)
	}
	return uc.userRepo.UpdatePhotoURL(ctx, userID, photoURL)
}
