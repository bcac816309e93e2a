package repository

import (
	"context"

	"animehub/internal/domain/model"
)

type ProductRepository interface {
	//categoryが空なら全件
	List(ctx context.Context, category string) ([]model.Product, error)
	FindByID(ctx context.Context, productID string) (model.Product, error)
	Create(ctx context.Context, p model.Product) error
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, productID string) error
}
