// Command kiosk places an order against a running storefront from the
// terminal: it builds a cart from menu item names, opens a payment link and
// submits the order once the link is paid.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"swiftbites.app/storefront/internal/checkout"
	"swiftbites.app/storefront/internal/storefront"
	"swiftbites.app/storefront/pkg/global"
	"swiftbites.app/storefront/pkg/logger"
	"swiftbites.app/storefront/pkg/models"
	"swiftbites.app/storefront/pkg/payment"
)

// itemFlags collects repeated -item NAME[=QTY] flags.
type itemFlags []string

func (f *itemFlags) String() string { return strings.Join(*f, ", ") }

func (f *itemFlags) Set(value string) error {
	*f = append(*f, value)
	return nil
}

func main() {
	_ = godotenv.Load()

	var items itemFlags
	server := flag.String("server", global.GetEnvOrDefault("STOREFRONT_URL", "http://localhost:8000"), "storefront base URL")
	phone := flag.String("phone", "", "10-digit phone number for the pickup SMS")
	priority := flag.Int("priority", 0, "priority fee: 0, 10, 30 or 50")
	timeout := flag.Duration("timeout", 15*time.Minute, "how long to wait for payment")
	flag.Var(&items, "item", "menu item as NAME or NAME=QTY, repeatable")
	flag.Parse()

	log := logger.New(logger.Config{
		Level:  global.GetEnvOrDefault("LOG_LEVEL", "warn"),
		Format: "text",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if err := run(ctx, *server, *phone, models.PriorityFee(*priority), items, log); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, server, phone string, fee models.PriorityFee, items []string, log *slog.Logger) error {
	client := storefront.New(server, nil)

	cart, err := buildCart(ctx, client, items, fee)
	if err != nil {
		return err
	}
	if !checkout.CanCheckout(cart, phone) {
		if cart.IsEmpty() {
			return checkout.ErrEmptyCart
		}
		return checkout.ErrInvalidPhone
	}

	countryCode := global.GetEnvOrDefault("COUNTRY_CODE", "+91")
	gateway := payment.NewRazorpay(payment.RazorpayConfig{
		KeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		KeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		OnLink: func(shortURL string) {
			fmt.Printf("Open this link to pay: %s\nWaiting for payment...\n", shortURL)
		},
	}, log)
	orchestrator := checkout.NewOrchestrator(gateway, client, checkout.Config{
		Currency:    global.GetEnvOrDefault("CURRENCY", "INR"),
		CountryCode: countryCode,
	}, log)

	state := checkout.State{Cart: cart, Phone: phone}
	quote, err := orchestrator.Quote(state)
	if err != nil {
		return err
	}
	printCart(cart, quote)

	_, confirmation, err := orchestrator.Submit(ctx, state)
	if err != nil {
		if errors.Is(err, checkout.ErrOrderFailed) {
			return fmt.Errorf("%w; keep your payment reference for support", err)
		}
		return err
	}

	fmt.Printf("\n%s\nOrder #%d, pickup token %s (payment %s)\n",
		confirmation.Message, confirmation.OrderID, confirmation.Token, confirmation.PaymentID)
	return nil
}

func buildCart(ctx context.Context, client *storefront.Client, items []string, fee models.PriorityFee) (models.Cart, error) {
	cart := models.Cart{}.Clear()
	for _, arg := range items {
		name, qty, err := parseItem(arg)
		if err != nil {
			return cart, err
		}
		item, err := client.FindItem(ctx, name)
		if err != nil {
			return cart, err
		}
		for i := 0; i < qty; i++ {
			cart = cart.AddItem(*item)
		}
	}
	return cart.SetPriorityFee(fee)
}

func parseItem(arg string) (string, int, error) {
	name, qtyText, found := strings.Cut(arg, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", 0, fmt.Errorf("item %q has no name", arg)
	}
	if !found {
		return name, 1, nil
	}
	qty, err := strconv.Atoi(strings.TrimSpace(qtyText))
	if err != nil || qty < 1 {
		return "", 0, fmt.Errorf("item %q: quantity must be a positive integer", arg)
	}
	return name, qty, nil
}

func printCart(cart models.Cart, quote *checkout.Quote) {
	for _, item := range cart.Items {
		fmt.Printf("  %-24s x%-3d %10s\n", item.Name, item.Quantity, item.Subtotal().StringFixed(2))
	}
	if cart.PriorityFee != models.PriorityFeeNone {
		fmt.Printf("  %-29s %10s\n", "Priority ("+string(quote.PriorityLevel)+")", cart.PriorityFee.Amount().StringFixed(2))
	}
	fmt.Printf("  %-29s %10s %s\n", "Total", quote.Amount.StringFixed(2), quote.Currency)
}
