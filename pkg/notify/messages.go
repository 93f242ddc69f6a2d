package notify

import "fmt"

func OrderConfirmation(token string) string {
	return fmt.Sprintf("Your order has been placed and payment received! Your order token is: %s. We'll notify you when it's ready.", token)
}

func ReadyForPickup(token string) string {
	return fmt.Sprintf("Your order %s is ready for pickup. Show this token at the counter.", token)
}
