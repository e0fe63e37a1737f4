package usecase

import (
	"context"
	"log"
	"time"

	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/entity"
	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/repository"
	"github.com/yohan201609-oss/El-ventorrillo/pkg/errors"
)

type AuthUseCase struct {
	userRepo     repository.UserRepository
	firebaseAuth FirebaseAuthClient
}

func NewAuthUseCase(userRepo repository.UserRepository, firebaseAuth FirebaseAuthClient) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		firebaseAuth: firebaseAuth,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// Register creates the account in Firebase Auth and mirrors it as a
// profile document. Sign-in itself happens on the client against
// Firebase; the server only verifies ID tokens.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	uid, err := uc.firebaseAuth.CreateUser(ctx, input.Email, input.Password, input.DisplayName)
	if err != nil {
		return nil, errors.BadRequest("Failed to create account", err)
	}

	user := &entity.User{
		ID:          uid,
		Email:       input.Email,
		DisplayName: input.DisplayName,
		CreatedAt:   time.Now(),
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		// Roll back the auth account so the email is not left orphaned.
		if delErr := uc.firebaseAuth.DeleteUser(ctx, uid); delErr != nil {
			log.Printf("Register: Failed to roll back auth user %s: %v", uid, delErr)
		}
		return nil, err
	}

	return user, nil
}

func (uc *AuthUseCase) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}
	return user, nil
}

// RequestPasswordReset generates a reset link for the email. The result
// does not reveal whether the account exists.
func (uc *AuthUseCase) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	link, err := uc.firebaseAuth.PasswordResetLink(ctx, email)
	if err != nil {
		log.Printf("RequestPasswordReset: Failed for %s: %v", email, err)
		return "", nil
	}
	return link, nil
}
