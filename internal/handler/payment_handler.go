package handler

import (
	"io"
	"net/http"

	"animehub/internal/config"
	"animehub/internal/middleware"
	"animehub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// チェックアウト開始・状態ポーリング・webhook受信のHTTP
type PaymentHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewPaymentHandler(uc *usecase.CheckoutUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

type CheckoutRequest struct {
	OriginURL string `json:"origin_url"`
}

func (h *PaymentHandler) RegisterRoutes(g *echo.Group, cfg config.Config) {
	pay := g.Group("/payment")
	pay.Use(middleware.AuthJWT(cfg))
	pay.POST("/checkout", h.checkout)
	pay.GET("/status/:session_id", h.status)

	//webhookは署名で信頼するので認証ミドルウェアは付けない
	g.POST("/webhook/stripe", h.webhook)
}

func (h *PaymentHandler) checkout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Checkout(c.Request().Context(), userID, getUserEmailFromContext(c), usecase.CheckoutInput{
		OriginURL: req.OriginURL,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) status(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.PollStatus(c.Request().Context(), userID, c.Param("session_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) webhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	signature := c.Request().Header.Get("Stripe-Signature")
	if err := h.uc.HandleWebhook(c.Request().Context(), body, signature); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}
