package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"swiftbites.app/storefront/internal/catalog"
	"swiftbites.app/storefront/internal/checkout"
	"swiftbites.app/storefront/pkg/ai"
	"swiftbites.app/storefront/pkg/global"
	"swiftbites.app/storefront/pkg/models"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (*models.OrderReceipt, error)
	List(ctx context.Context) ([]models.Order, error)
	MarkPrepared(ctx context.Context, id int64) (*models.Order, error)
	MarkPickedUp(ctx context.Context, id int64) (*models.Order, error)
}

type MenuService interface {
	List(ctx context.Context) ([]models.MenuItem, error)
	Get(ctx context.Context, id bson.ObjectID) (*models.MenuItem, error)
	Create(ctx context.Context, in catalog.Input) (*models.MenuItem, error)
	Update(ctx context.Context, id bson.ObjectID, in catalog.Input) (*models.MenuItem, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

type InventoryService interface {
	List(ctx context.Context) ([]models.InventoryItem, error)
	Create(ctx context.Context, req models.CreateInventoryRequest) (*models.InventoryItem, error)
	Update(ctx context.Context, id bson.ObjectID, req models.UpdateInventoryRequest) (*models.InventoryItem, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	Report(ctx context.Context) (*ai.ReportResponse, error)
}

type InsightsService interface {
	Generate(ctx context.Context) (*ai.ReportResponse, error)
}

type CartStore interface {
	Create(ctx context.Context) (string, models.Cart, error)
	Get(ctx context.Context, sessionID string) (models.Cart, error)
	Update(ctx context.Context, sessionID string, fn func(models.Cart) (models.Cart, error)) (models.Cart, error)
	Delete(ctx context.Context, sessionID string) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Orders    OrderService
	Menu      MenuService
	Inventory InventoryService
	Insights  InsightsService
	Carts     CartStore
	// Health maps a dependency name to its liveness check.
	Health       map[string]Pinger
	Checkout     checkout.Config
	PaymentKeyID string
	Admin        AdminCredentials
}

type Handler struct {
	deps Deps
	log  *slog.Logger
}

func NewHandler(deps Deps, log *slog.Logger) *Handler {
	return &Handler{deps: deps, log: log}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	checks := map[string]string{}
	healthy := true
	for name, p := range h.deps.Health {
		if err := p.Ping(c.Request.Context()); err != nil {
			h.log.Error("health check failed", "dependency", name, "error", err)
			checks[name] = "unavailable"
			healthy = false
			continue
		}
		checks[name] = "connected"
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, global.APIResponse{
			Success: false,
			Data:    gin.H{"status": "DEGRADED", "checks": checks},
			Message: "Database connection failed",
		})
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{"status": "OK", "checks": checks}))
}

func (h *Handler) GetPaymentConfig(c *gin.Context) {
	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{
		"key_id":       h.deps.PaymentKeyID,
		"currency":     h.deps.Checkout.Currency,
		"country_code": h.deps.Checkout.CountryCode,
	}))
}

// respondError writes err using the status that matches its kind. Causes of
// internal failures are logged, never returned.
func (h *Handler) respondError(c *gin.Context, err error) {
	var gerr *global.Error
	if !errors.As(err, &gerr) {
		gerr = &global.Error{Kind: global.ErrPersistence, Message: "Internal server error", Cause: err}
		if errors.Is(err, global.ErrNotFound) {
			gerr = global.NotFound("Resource not found")
		}
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(gerr.Kind, global.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(gerr.Kind, global.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(gerr.Kind, global.ErrUpstream):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		h.log.Error(gerr.Message, "request_id", c.GetString(requestIDKey), "error", err)
	}
	c.JSON(status, global.ErrorResponse(gerr.Message, gerr.Fields))
}

func badRequest(c *gin.Context, message string, field, detail, code string) {
	c.JSON(http.StatusBadRequest, global.ErrorResponse(message, []global.ValidationError{
		{Field: field, Message: detail, Code: code},
	}))
}

func bindError(c *gin.Context, err error) {
	badRequest(c, "Invalid request data", "body", err.Error(), "invalid_format")
}

func objectIDParam(c *gin.Context) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid ID format", "id", "id must be a 24 character hex string", "invalid_format")
		return bson.ObjectID{}, false
	}
	return id, true
}

func orderIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		badRequest(c, "Invalid order ID", "id", "id must be a positive integer", "invalid_format")
		return 0, false
	}
	return id, true
}
