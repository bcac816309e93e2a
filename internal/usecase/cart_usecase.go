package usecase

import (
	"context"
	"errors"
	"net/http"

	"animehub/internal/domain/model"
	repo "animehub/internal/repository"
)

// CartUsecase は /cart の業務ロジックです。
type CartUsecase struct {
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
	idGen        IDGenerator
}

func NewCartUsecase(
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	idGen IDGenerator,
) *CartUsecase {
	return &CartUsecase{
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		idGen:        idGen,
	}
}

// カート行＋現在の商品情報
type CartItemView struct {
	ID        string        `json:"id"`
	ProductID string        `json:"product_id"`
	Quantity  int64         `json:"quantity"`
	Product   model.Product `json:"product"`
}

type AddCartInput struct {
	ProductID string
	Quantity  int64
}

// GetCartは商品情報つきで返す。商品が消えている行は表示から外す。
func (u *CartUsecase) GetCart(ctx context.Context, userID string) ([]CartItemView, error) {
	if userID == "" {
		return []CartItemView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := u.cartItemRepo.ListByUserID(ctx, userID)
	if err != nil {
		return []CartItemView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	views := make([]CartItemView, 0, len(items))
	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			//商品が消えた行だけ表示から外す
			continue
		}
		if err != nil {
			return []CartItemView{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		views = append(views, CartItemView{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Product:   p,
		})
	}

	return views, nil
}

// AddToCartはカートに追加。同一商品は数量加算で行を増やさない。
func (u *CartUsecase) AddToCart(ctx context.Context, userID string, in AddCartInput) error {
	if userID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	//商品の存在チェック
	_, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	existing, err := u.cartItemRepo.FindByUserAndProduct(ctx, userID, in.ProductID)
	if err == nil {
		//既存行に加算
		if err := u.cartItemRepo.UpdateQuantity(ctx, existing.ID, userID, existing.Quantity+in.Quantity); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartItemRepo.Create(ctx, model.CartItem{
		ID:        u.idGen.NewID(),
		UserID:    userID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 数量変更（所有スコープ付き）
func (u *CartUsecase) UpdateItem(ctx context.Context, userID string, itemID string, quantity int64) error {
	if userID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if quantity < 1 {
		return NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	err := u.cartItemRepo.UpdateQuantity(ctx, itemID, userID, quantity)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CartUsecase) RemoveItem(ctx context.Context, userID string, itemID string) error {
	if userID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	err := u.cartItemRepo.DeleteByID(ctx, itemID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// Clearは全行削除。空のカートでも成功する。
func (u *CartUsecase) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := u.cartItemRepo.ClearByUserID(ctx, userID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
