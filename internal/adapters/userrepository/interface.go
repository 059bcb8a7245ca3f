package userrepository

import (
	"context"

	"github.com/Twinkal-shah/GSC-BACKEND-HTTP/internal/domain"
)

type UserRepository interface {
	// GetByEmail returns domain.ErrUserNotFound when no record matches.
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	// Create returns domain.ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, user domain.User) (domain.User, error)
	// Update refreshes last_login and the fields set in the update.
	Update(ctx context.Context, update domain.UserUpdate) (domain.User, error)
}
