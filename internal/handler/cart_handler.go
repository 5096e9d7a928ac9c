package handler

import (
	"context"
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// /cart, /cart/items/{productID} を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/cart")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.getCart)
	g.POST("/items/:productID", h.addItem)
	g.POST("/items/:productID/increase", h.increase)
	g.POST("/items/:productID/decrease", h.decrease)
	g.DELETE("/items/:productID", h.remove)
}

func (h *CartHandler) getCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.GetCart(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addItem(c echo.Context) error {
	return h.mutate(c, h.uc.AddItem)
}

func (h *CartHandler) increase(c echo.Context) error {
	return h.mutate(c, h.uc.Increase)
}

func (h *CartHandler) decrease(c echo.Context) error {
	return h.mutate(c, h.uc.Decrease)
}

func (h *CartHandler) remove(c echo.Context) error {
	return h.mutate(c, h.uc.Remove)
}

// productID をパスから取り出して usecase に渡す共通処理
func (h *CartHandler) mutate(
	c echo.Context,
	fn func(ctx context.Context, userID int64, productID int64) (usecase.CartResponse, error),
) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("productID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}

	out, err := fn(c.Request().Context(), userID, productID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
