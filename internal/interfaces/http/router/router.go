package router

import (
	"github.com/gin-gonic/gin"
	"github.com/halmarket/backend/internal/interfaces/http/handler"
	"github.com/halmarket/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers bundles the handlers the router wires up
type Handlers struct {
	System       *handler.SystemHandler
	Partner      *handler.PartnerHandler
	Inventory    *handler.InventoryHandler
	Settlement   *handler.SettlementHandler
	Deduction    *handler.DeductionHandler
	Deposit      *handler.DepositHandler
	Risk         *handler.RiskHandler
	Notification *handler.NotificationHandler
}

// Setup builds the gin engine with all middleware and routes registered
func Setup(handlers Handlers, logger *zap.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
	)

	engine.GET("/health", handlers.System.Health)
	engine.GET("/ready", handlers.System.Ready)

	api := engine.Group("/api/v1")

	parties := api.Group("/parties")
	{
		parties.POST("", handlers.Partner.Create)
		parties.GET("", handlers.Partner.List)
		parties.GET("/:id", handlers.Partner.Get)
		parties.PATCH("/:id/limits", handlers.Partner.UpdateLimits)
		parties.GET("/:id/entries", handlers.Partner.Entries)
		parties.POST("/:id/collect", handlers.Partner.Collect)
		parties.POST("/:id/pay", handlers.Partner.Pay)
		parties.GET("/:id/reconciliation", handlers.Partner.Reconcile)
		parties.GET("/:id/risk", handlers.Risk.Evaluate)
	}

	deliveries := api.Group("/deliveries")
	{
		deliveries.POST("", handlers.Inventory.RecordDelivery)
		deliveries.GET("/:id", handlers.Inventory.GetDelivery)
	}
	api.GET("/stock", handlers.Inventory.ListStock)

	documents := api.Group("/documents")
	{
		documents.POST("", handlers.Settlement.CreateDraft)
		documents.GET("", handlers.Settlement.List)
		documents.GET("/:id", handlers.Settlement.Get)
		documents.POST("/:id/lines", handlers.Settlement.AddLine)
		documents.POST("/:id/finalize", handlers.Settlement.Finalize)
		documents.POST("/:id/cancel", handlers.Settlement.Cancel)
		documents.GET("/:id/notification", handlers.Notification.GetByDocument)
	}

	deductions := api.Group("/deductions")
	{
		deductions.POST("", handlers.Deduction.Create)
		deductions.GET("", handlers.Deduction.List)
		deductions.POST("/:id/deactivate", handlers.Deduction.Deactivate)
		deductions.POST("/:id/reactivate", handlers.Deduction.Reactivate)
	}

	deposits := api.Group("/deposits")
	{
		deposits.POST("/pledge", handlers.Deposit.Pledge)
		deposits.POST("/return", handlers.Deposit.Return)
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("/dead", handlers.Notification.ListDead)
		notifications.POST("/:id/retry", handlers.Notification.Retry)
	}

	return engine
}
