package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// New はミドルウェア設定済みのechoエンジンを返す。
func New() *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	//リクエストログとpanic回復
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	return e
}

// Start はサーバーを起動する。
func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
