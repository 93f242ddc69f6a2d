package router

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"swiftbites.app/storefront/internal/catalog"
	"swiftbites.app/storefront/pkg/global"
	"swiftbites.app/storefront/pkg/models"
)

func (h *Handler) GetMenu(c *gin.Context) {
	items, err := h.deps.Menu.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(items))
}

func (h *Handler) CreateMenuItem(c *gin.Context) {
	in, file, ok := h.bindMenuForm(c)
	if !ok {
		return
	}
	if file != nil {
		defer file.Close()
	}

	item, err := h.deps.Menu.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, global.MessageResponse("Menu item created successfully", item))
}

func (h *Handler) UpdateMenuItem(c *gin.Context) {
	id, ok := objectIDParam(c)
	if !ok {
		return
	}
	in, file, ok := h.bindMenuForm(c)
	if !ok {
		return
	}
	if file != nil {
		defer file.Close()
	}

	item, err := h.deps.Menu.Update(c.Request.Context(), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.MessageResponse("Menu item updated successfully", item))
}

func (h *Handler) DeleteMenuItem(c *gin.Context) {
	id, ok := objectIDParam(c)
	if !ok {
		return
	}
	if err := h.deps.Menu.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.MessageResponse("Menu item deleted successfully", nil))
}

// bindMenuForm reads the multipart editor form. The returned file, when not
// nil, backs in.Image and must be closed by the caller.
func (h *Handler) bindMenuForm(c *gin.Context) (catalog.Input, multipart.File, bool) {
	var form models.MenuItemForm
	if err := c.ShouldBind(&form); err != nil {
		bindError(c, err)
		return catalog.Input{}, nil, false
	}

	price, err := decimal.NewFromString(form.Price)
	if err != nil {
		badRequest(c, "Invalid request data", "price", "price must be a number", "invalid_format")
		return catalog.Input{}, nil, false
	}
	in := catalog.Input{Name: form.Name, Price: price, ClearImage: form.ClearImage}

	header, err := c.FormFile("imageFile")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return in, nil, true
	}
	if err != nil {
		badRequest(c, "Invalid request data", "imageFile", err.Error(), "invalid_format")
		return catalog.Input{}, nil, false
	}

	file, err := header.Open()
	if err != nil {
		h.respondError(c, global.Persistence("Failed to read uploaded image", err))
		return catalog.Input{}, nil, false
	}
	in.Image = &catalog.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}
	return in, file, true
}
