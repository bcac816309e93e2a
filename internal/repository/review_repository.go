package repository

import (
	"context"

	"animehub/internal/domain/model"
)

type ReviewRepository interface {
	//新しい順
	ListByProductID(ctx context.Context, productID string) ([]model.Review, error)
	Create(ctx context.Context, rv model.Review) error
}
