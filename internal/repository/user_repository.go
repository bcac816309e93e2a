package repository

import (
	"context"

	"animehub/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, u model.User) error
	FindByID(ctx context.Context, userID string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
}
