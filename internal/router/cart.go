package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"swiftbites.app/storefront/internal/checkout"
	"swiftbites.app/storefront/pkg/global"
	"swiftbites.app/storefront/pkg/models"
)

type quoteRequest struct {
	Phone string `json:"phone"`
}

func (h *Handler) CreateCart(c *gin.Context) {
	sessionID, cart, err := h.deps.Carts.Create(c.Request.Context())
	if err != nil {
		h.respondError(c, global.Persistence("Failed to create cart", err))
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(cart.Summary(sessionID)))
}

func (h *Handler) GetCart(c *gin.Context) {
	sessionID := c.Param("sessionId")
	cart, err := h.deps.Carts.Get(c.Request.Context(), sessionID)
	if err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cart.Summary(sessionID)))
}

func (h *Handler) DeleteCart(c *gin.Context) {
	if err := h.deps.Carts.Delete(c.Request.Context(), c.Param("sessionId")); err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.MessageResponse("Cart deleted successfully", nil))
}

// AddToCart prices the line from the menu, never from the request.
func (h *Handler) AddToCart(c *gin.Context) {
	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	id, err := bson.ObjectIDFromHex(req.MenuItemID)
	if err != nil {
		badRequest(c, "Invalid ID format", "menu_item_id", "menu_item_id must be a 24 character hex string", "invalid_format")
		return
	}

	item, err := h.deps.Menu.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.updateCart(c, func(cart models.Cart) (models.Cart, error) {
		return cart.AddItem(*item), nil
	})
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	itemID := c.Param("itemId")
	h.updateCart(c, func(cart models.Cart) (models.Cart, error) {
		return cart.SetQuantity(itemID, req.Delta)
	})
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	itemID := c.Param("itemId")
	h.updateCart(c, func(cart models.Cart) (models.Cart, error) {
		return cart.RemoveItem(itemID), nil
	})
}

func (h *Handler) SetCartPriority(c *gin.Context) {
	var req models.SetPriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.updateCart(c, func(cart models.Cart) (models.Cart, error) {
		return cart.SetPriorityFee(*req.PriorityFee)
	})
}

func (h *Handler) QuoteCart(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	cart, err := h.deps.Carts.Get(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		h.cartError(c, err)
		return
	}

	quote, err := checkout.BuildQuote(checkout.State{Cart: cart, Phone: req.Phone}, h.deps.Checkout)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(quote))
}

func (h *Handler) updateCart(c *gin.Context, fn func(models.Cart) (models.Cart, error)) {
	sessionID := c.Param("sessionId")
	cart, err := h.deps.Carts.Update(c.Request.Context(), sessionID, fn)
	if err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cart.Summary(sessionID)))
}

func (h *Handler) cartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrCartItemNotFound):
		h.respondError(c, global.NotFound("Item not found in cart"))
	case errors.Is(err, models.ErrInvalidPriorityFee):
		h.respondError(c, global.Validation("Invalid priority fee", global.ValidationError{
			Field: "priority_fee", Message: err.Error(), Code: "invalid_value",
		}))
	case errors.Is(err, global.ErrNotFound):
		h.respondError(c, global.NotFound("Cart not found"))
	default:
		h.respondError(c, global.Persistence("Failed to update cart", err))
	}
}
