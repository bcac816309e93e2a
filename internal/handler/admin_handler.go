package handler

import (
	"net/http"

	"animehub/internal/config"
	"animehub/internal/middleware"
	"animehub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 管理者向けAPI（注文一覧・ユーザー一覧・注文ステータス変更）
type AdminHandler struct {
	orderUC *usecase.OrderUsecase
	authUC  *usecase.AuthUsecase
}

func NewAdminHandler(orderUC *usecase.OrderUsecase, authUC *usecase.AuthUsecase) *AdminHandler {
	return &AdminHandler{orderUC: orderUC, authUC: authUC}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminHandler) RegisterRoutes(g *echo.Group, cfg config.Config) {
	admin := g.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/orders", h.listOrders)
	admin.GET("/users", h.listUsers)
	admin.PUT("/orders/:id/status", h.updateOrderStatus)
}

func (h *AdminHandler) listOrders(c echo.Context) error {
	out, err := h.orderUC.AdminListOrders(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) listUsers(c echo.Context) error {
	out, err := h.authUC.AdminListUsers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) updateOrderStatus(c echo.Context) error {
	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.orderUC.AdminUpdateStatus(c.Request().Context(), c.Param("id"), req.Status); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "order status updated"})
}
