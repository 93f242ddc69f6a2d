package router

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type EngineConfig struct {
	Production  bool
	CORSOrigins []string
}

func NewEngine(cfg EngineConfig, log *slog.Logger) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log))
	router.MaxMultipartMemory = 8 << 20

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	return router
}

func (h *Handler) InitializeRoutes(router *gin.Engine) {
	admin := AdminMiddleware(h.deps.Admin, h.log)

	api := router.Group("/api")
	{
		api.GET("/health", h.HealthCheck)

		payment := api.Group("/payment")
		{
			payment.GET("/config", h.GetPaymentConfig)
		}

		menu := api.Group("/menu")
		{
			menu.GET("", h.GetMenu)
			menu.POST("", admin, h.CreateMenuItem)
			menu.PUT("/:id", admin, h.UpdateMenuItem)
			menu.DELETE("/:id", admin, h.DeleteMenuItem)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", h.PlaceOrder)
			orders.GET("", admin, h.GetOrders)
			orders.GET("/insights", admin, h.GetOrderInsights)
			orders.POST("/:id/prepared", admin, h.MarkOrderPrepared)
			orders.POST("/:id/pickedup", admin, h.MarkOrderPickedUp)
		}

		cart := api.Group("/cart")
		{
			cart.POST("", h.CreateCart)
			cart.GET("/:sessionId", h.GetCart)
			cart.DELETE("/:sessionId", h.DeleteCart)
			cart.POST("/:sessionId/items", h.AddToCart)
			cart.PATCH("/:sessionId/items/:itemId", h.UpdateCartItem)
			cart.DELETE("/:sessionId/items/:itemId", h.RemoveFromCart)
			cart.PUT("/:sessionId/priority", h.SetCartPriority)
			cart.POST("/:sessionId/quote", h.QuoteCart)
		}

		inventory := api.Group("/inventory")
		inventory.Use(admin)
		{
			inventory.GET("", h.GetInventory)
			inventory.GET("/report", h.GetInventoryReport)
			inventory.POST("", h.CreateInventoryItem)
			inventory.PUT("/:id", h.UpdateInventoryItem)
			inventory.DELETE("/:id", h.DeleteInventoryItem)
		}
	}
}
