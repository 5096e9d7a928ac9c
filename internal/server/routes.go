package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes は全ハンドラのルートをまとめて登録する。
func RegisterRoutes(
	e *echo.Echo,
	cfg config.Config,
	authH *handler.AuthHandler,
	productH *handler.ProductHandler,
	cartH *handler.CartHandler,
	orderH *handler.OrderHandler,
	adminH *handler.AdminCatalogHandler,
	adminOrderH *handler.AdminOrderHandler,
	contactH *handler.ContactHandler,
) {
	authH.RegisterRoutes(e)
	productH.RegisterRoutes(e)
	contactH.RegisterRoutes(e)

	cartH.RegisterRoutes(e, cfg)
	orderH.RegisterRoutes(e, cfg)
	adminH.RegisterRoutes(e, cfg)
	adminOrderH.RegisterRoutes(e, cfg)
}
