package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"animehub/internal/domain/model"
	repo "animehub/internal/repository"
	"animehub/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newOrderUsecase() (*usecase.OrderUsecase, *OrderRepoMock, *OrderItemRepoMock) {
	orders := new(OrderRepoMock)
	items := new(OrderItemRepoMock)
	return usecase.NewOrderUsecase(orders, items), orders, items
}

func TestListMyOrders_WithItems(t *testing.T) {
	uc, orders, items := newOrderUsecase()

	orders.On("ListByUserID", mock.Anything, "u1").Return([]model.Order{
		{ID: "o1", UserID: "u1", Status: model.OrderStatusCompleted, TotalAmount: 2500},
	}, nil)
	items.On("ListByOrderID", mock.Anything, "o1").Return([]model.OrderItem{
		{OrderID: "o1", ProductID: "pA", ProductNameSnapshot: "Akira Poster", UnitPriceSnapshot: 1000, Quantity: 2},
	}, nil)

	out, err := uc.ListMyOrders(context.Background(), "u1")
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, "completed", out[0].Status)
	assert.Len(t, out[0].Items, 1)
	//明細は注文時点のスナップショット
	assert.Equal(t, "Akira Poster", out[0].Items[0].ProductName)
	assert.Equal(t, int64(1000), out[0].Items[0].Price)
}

func TestGetMyOrder_OtherUsersOrderHidden(t *testing.T) {
	uc, orders, items := newOrderUsecase()

	orders.On("FindByID", mock.Anything, "o1").Return(model.Order{ID: "o1", UserID: "u2"}, nil)

	_, err := uc.GetMyOrder(context.Background(), "u1", "o1")
	assertHTTPError(t, err, http.StatusNotFound, "order not found")

	items.AssertNotCalled(t, "ListByOrderID", mock.Anything, mock.Anything)
}

func TestAdminUpdateStatus_NotFound(t *testing.T) {
	uc, orders, _ := newOrderUsecase()

	orders.On("UpdateStatus", mock.Anything, "o-missing", model.OrderStatus("completed")).Return(repo.ErrNotFound)

	err := uc.AdminUpdateStatus(context.Background(), "o-missing", "completed")
	assertHTTPError(t, err, http.StatusNotFound, "order not found")
}

func TestAdminUpdateStatus_BlankStatus(t *testing.T) {
	uc, orders, _ := newOrderUsecase()

	err := uc.AdminUpdateStatus(context.Background(), "o1", "  ")
	assertHTTPError(t, err, http.StatusBadRequest, "invalid status")

	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}
