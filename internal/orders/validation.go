package orders

import (
	"fmt"
	"strings"
	"unicode"

	"swiftbites.app/storefront/pkg/global"
	"swiftbites.app/storefront/pkg/models"
)

// validatePlaceOrder checks a submission before anything is written.
// All problems are reported at once.
func validatePlaceOrder(req *models.PlaceOrderRequest) *global.Error {
	var fields []global.ValidationError

	if len(req.Cart) == 0 {
		fields = append(fields, global.Required("cart"))
	}
	if strings.TrimSpace(req.Phone) == "" {
		fields = append(fields, global.Required("phone"))
	}
	if strings.TrimSpace(req.PaymentID) == "" {
		fields = append(fields, global.Required("payment_id"))
	}
	if req.PriorityLevel != "" && !req.PriorityLevel.Valid() {
		fields = append(fields, global.ValidationError{
			Field:   "priority_level",
			Message: "priority level must be one of normal, medium, high, urgent",
			Code:    "invalid",
		})
	}

	for i, item := range req.Cart {
		field := fmt.Sprintf("cart[%d]", i)
		switch {
		case strings.TrimSpace(item.Name) == "":
			fields = append(fields, global.Required(field+".name"))
		case strings.ContainsFunc(item.Name, unicode.IsControl):
			// Names become one line of the stored item summary.
			fields = append(fields, global.ValidationError{
				Field:   field + ".name",
				Message: "name cannot contain control characters",
				Code:    "invalid",
			})
		}
		if item.Quantity < 1 {
			fields = append(fields, global.ValidationError{
				Field:   field + ".quantity",
				Message: "quantity must be at least 1",
				Code:    "min",
			})
		}
		if item.Price.IsNegative() {
			fields = append(fields, global.ValidationError{
				Field:   field + ".price",
				Message: "price cannot be negative",
				Code:    "min",
			})
		}
	}

	if len(fields) > 0 {
		return global.Validation("Invalid request", fields...)
	}
	return nil
}
