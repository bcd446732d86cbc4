package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sahanw/restopos/config"
	"github.com/sahanw/restopos/internal/permission"
)

type Handlers struct {
	Auth     *AuthHandler
	Menu     *MenuHandler
	Orders   *OrdersHandler
	Settings *SettingsHandler
}

// NewRouter builds the HTTP surface. Everything except login and health
// requires a valid session token; mutating routes are capability-gated.
func NewRouter(cfg *config.Config, h Handlers) *gin.Engine {
	if cfg.Server.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.POST("/auth/login", h.Auth.Login)

	api := r.Group("/", AuthRequired(cfg.JWT.SecretKey))

	menu := api.Group("/menu")
	{
		menu.GET("", h.Menu.List)
		menu.POST("", Require(func(c permission.Capabilities) bool { return c.AddMenuItems }), h.Menu.Create)
		menu.PUT("/:id", Require(func(c permission.Capabilities) bool { return c.EditMenuItems }), h.Menu.Update)
		menu.DELETE("/:id", Require(func(c permission.Capabilities) bool { return c.DeleteMenuItems }), h.Menu.Delete)
	}

	orders := api.Group("/orders")
	{
		orders.GET("", h.Orders.List)
		orders.POST("", Require(func(c permission.Capabilities) bool { return c.ProcessPayments }), h.Orders.Create)
		orders.POST("/:id/advance", Require(func(c permission.Capabilities) bool { return c.UpdateOrderStatus }), h.Orders.Advance)
		// The refund ceiling is enforced inside the processor; the route
		// itself only needs an authenticated caller.
		orders.POST("/:id/refund", h.Orders.Refund)
	}

	settings := api.Group("/settings")
	{
		settings.GET("", h.Settings.GetAll)
		settings.GET("/:key", h.Settings.Get)
		settings.PUT("/:key", h.Settings.Set)
	}

	return r
}
