package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Handlers はルート登録に必要なハンドラ一式です。
type Handlers struct {
	Entries        *handler.EntryHandler
	SupplyRequests *handler.SupplyRequestHandler
	Notifications  *handler.NotificationHandler
}

// New はechoを組み立てて返します。起動は呼び出し側。
func New(cfg config.Config, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	h.Entries.RegisterRoutes(e, cfg)
	h.SupplyRequests.RegisterRoutes(e, cfg)
	h.Notifications.RegisterRoutes(e, cfg)

	return e
}
