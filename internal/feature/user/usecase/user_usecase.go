// Package usecase implements the business logic for the user feature.
package usecase

import (
	"context"

	"auth_backend/internal/feature/auth/domain/entity"
)

// UserReader abstracts the lookup the user feature needs.
// The auth feature's repository satisfies it, optionally wrapped by the cache.
type UserReader interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

// UserData is the public projection of an account.
type UserData struct {
	Name              string
	IsAccountVerified bool
}

// userUsecase serves account data for authenticated requests.
type userUsecase struct {
	users UserReader
}

// NewUserUsecase creates a new instance of userUsecase.
func NewUserUsecase(users UserReader) *userUsecase {
	return &userUsecase{users: users}
}

// GetUserData returns the display data for the given user.
// Lookup errors from the reader, including not-found, propagate unchanged.
func (u *userUsecase) GetUserData(ctx context.Context, userID string) (*UserData, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserData{
		Name:              user.Name,
		IsAccountVerified: user.IsAccountVerified,
	}, nil
}
