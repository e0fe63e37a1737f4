package usecase

import "context"

type FirebaseAuthClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	GetUserEmail(ctx context.Context, uid string) (string, error)
	UpdateDisplayName(ctx context.Context, uid, displayName string) error
	PasswordResetLink(ctx context.Context, email string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
}
