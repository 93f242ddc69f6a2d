package router

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"swiftbites.app/storefront/pkg/global"
	"swiftbites.app/storefront/pkg/models"
)

func (h *Handler) PlaceOrder(c *gin.Context) {
	var req models.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	receipt, err := h.deps.Orders.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func (h *Handler) GetOrders(c *gin.Context) {
	orders, err := h.deps.Orders.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Header("X-Total-Count", strconv.Itoa(len(orders)))
	c.JSON(http.StatusOK, global.SuccessResponse(orders))
}

func (h *Handler) MarkOrderPrepared(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	order, err := h.deps.Orders.MarkPrepared(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.MessageResponse("Order marked as prepared.", order))
}

func (h *Handler) MarkOrderPickedUp(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	order, err := h.deps.Orders.MarkPickedUp(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.MessageResponse("Order marked as picked up.", order))
}

func (h *Handler) GetOrderInsights(c *gin.Context) {
	report, err := h.deps.Insights.Generate(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(report))
}
