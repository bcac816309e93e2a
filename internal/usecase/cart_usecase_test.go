package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"animehub/internal/domain/model"
	repo "animehub/internal/repository"
	"animehub/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCartUsecase() (*usecase.CartUsecase, *CartItemRepoMock, *ProductRepoMock) {
	cart := new(CartItemRepoMock)
	products := new(ProductRepoMock)
	uc := usecase.NewCartUsecase(cart, products, &seqIDGen{})
	return uc, cart, products
}

func TestAddToCart_NewItem(t *testing.T) {
	uc, cart, products := newCartUsecase()

	products.On("FindByID", mock.Anything, "pA").Return(model.Product{ID: "pA", Price: 1000}, nil)
	cart.On("FindByUserAndProduct", mock.Anything, "u1", "pA").Return(model.CartItem{}, repo.ErrNotFound)
	cart.On("Create", mock.Anything, mock.MatchedBy(func(it model.CartItem) bool {
		return it.UserID == "u1" && it.ProductID == "pA" && it.Quantity == 3 && it.ID != ""
	})).Return(nil)

	err := uc.AddToCart(context.Background(), "u1", usecase.AddCartInput{ProductID: "pA", Quantity: 3})
	assert.NoError(t, err)
	cart.AssertExpectations(t)
}

func TestAddToCart_ExistingIncrements(t *testing.T) {
	uc, cart, products := newCartUsecase()

	products.On("FindByID", mock.Anything, "pA").Return(model.Product{ID: "pA"}, nil)
	cart.On("FindByUserAndProduct", mock.Anything, "u1", "pA").
		Return(model.CartItem{ID: "c1", UserID: "u1", ProductID: "pA", Quantity: 2}, nil)
	//行は増やさず数量を加算する
	cart.On("UpdateQuantity", mock.Anything, "c1", "u1", int64(5)).Return(nil)

	err := uc.AddToCart(context.Background(), "u1", usecase.AddCartInput{ProductID: "pA", Quantity: 3})
	assert.NoError(t, err)

	cart.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	cart.AssertExpectations(t)
}

func TestAddToCart_ProductNotFound(t *testing.T) {
	uc, cart, products := newCartUsecase()

	products.On("FindByID", mock.Anything, "pGone").Return(model.Product{}, repo.ErrNotFound)

	err := uc.AddToCart(context.Background(), "u1", usecase.AddCartInput{ProductID: "pGone", Quantity: 1})
	assertHTTPError(t, err, http.StatusNotFound, "product not found")

	cart.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetCart_SkipsMissingProduct(t *testing.T) {
	uc, cart, products := newCartUsecase()

	cart.On("ListByUserID", mock.Anything, "u1").Return([]model.CartItem{
		{ID: "c1", ProductID: "pA", Quantity: 1},
		{ID: "c2", ProductID: "pGone", Quantity: 2},
	}, nil)
	products.On("FindByID", mock.Anything, "pA").Return(model.Product{ID: "pA", Name: "Akira Poster"}, nil)
	products.On("FindByID", mock.Anything, "pGone").Return(model.Product{}, repo.ErrNotFound)

	views, err := uc.GetCart(context.Background(), "u1")
	assert.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Equal(t, "pA", views[0].ProductID)
}

func TestGetCart_DBErrorIsNotSwallowed(t *testing.T) {
	uc, cart, products := newCartUsecase()

	cart.On("ListByUserID", mock.Anything, "u1").Return([]model.CartItem{
		{ID: "c1", ProductID: "pA", Quantity: 1},
	}, nil)
	//削除済みではない一時的な失敗は行を隠さずエラーにする
	products.On("FindByID", mock.Anything, "pA").Return(model.Product{}, errors.New("connection reset"))

	_, err := uc.GetCart(context.Background(), "u1")
	assertHTTPError(t, err, http.StatusInternalServerError, "db error")
}

func TestUpdateItem_NotOwned(t *testing.T) {
	uc, cart, _ := newCartUsecase()

	cart.On("UpdateQuantity", mock.Anything, "c-other", "u1", int64(2)).Return(repo.ErrNotFound)

	err := uc.UpdateItem(context.Background(), "u1", "c-other", 2)
	assertHTTPError(t, err, http.StatusNotFound, "cart item not found")
}

func TestClear_EmptyCart(t *testing.T) {
	uc, cart, _ := newCartUsecase()

	cart.On("ClearByUserID", mock.Anything, "u1").Return(nil)

	assert.NoError(t, uc.Clear(context.Background(), "u1"))
}
