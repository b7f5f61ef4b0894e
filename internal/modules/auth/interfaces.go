package auth

import (
	"context"

	"homecrew/internal/domain"
)

// UserRepository is the subset of the user store the auth service needs.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	MarkVerified(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, hash string) error
}

// CodeStore keeps one pending verification code digest per email.
type CodeStore interface {
	Save(ctx context.Context, email, digest string) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

type TokenIssuer interface {
	GenerateToken(userID string, role string) (string, error)
}
