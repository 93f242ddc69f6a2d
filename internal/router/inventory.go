package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"swiftbites.app/storefront/pkg/global"
	"swiftbites.app/storefront/pkg/models"
)

func (h *Handler) GetInventory(c *gin.Context) {
	items, err := h.deps.Inventory.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(items))
}

func (h *Handler) GetInventoryReport(c *gin.Context) {
	report, err := h.deps.Inventory.Report(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(report))
}

func (h *Handler) CreateInventoryItem(c *gin.Context) {
	var req models.CreateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.deps.Inventory.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, global.MessageResponse("Inventory item created successfully", item))
}

func (h *Handler) UpdateInventoryItem(c *gin.Context) {
	id, ok := objectIDParam(c)
	if !ok {
		return
	}
	var req models.UpdateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.deps.Inventory.Update(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.MessageResponse("Inventory item updated successfully", item))
}

func (h *Handler) DeleteInventoryItem(c *gin.Context) {
	id, ok := objectIDParam(c)
	if !ok {
		return
	}
	if err := h.deps.Inventory.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.MessageResponse("Inventory item deleted successfully", nil))
}
