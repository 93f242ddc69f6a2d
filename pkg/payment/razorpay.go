package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const defaultRazorpayURL = "https://api.razorpay.com/v1"

var (
	ErrCancelled   = errors.New("payment cancelled")
	ErrFailed      = errors.New("payment failed")
	ErrUnavailable = errors.New("payment gateway unavailable")
)

// Request describes a single payment to collect.
type Request struct {
	Amount      decimal.Decimal
	Currency    string
	Contact     string
	Description string
}

// Paise converts a rupee amount to the smallest currency unit.
func Paise(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

type RazorpayConfig struct {
	KeyID        string
	KeySecret    string
	BaseURL      string
	PollInterval time.Duration
	// MaxPollErrors is how many consecutive status checks may fail before
	// the gateway is treated as unreachable.
	MaxPollErrors int
	HTTPClient    *http.Client
	// OnLink receives the hosted checkout URL the customer must open.
	OnLink func(shortURL string)
}

// Razorpay collects payments through hosted payment links and waits for
// the customer to complete them.
type Razorpay struct {
	cfg  RazorpayConfig
	http *http.Client
	log  *slog.Logger
}

func NewRazorpay(cfg RazorpayConfig, log *slog.Logger) *Razorpay {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultRazorpayURL
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Second
	}
	if cfg.MaxPollErrors <= 0 {
		cfg.MaxPollErrors = 3
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Razorpay{cfg: cfg, http: client, log: log}
}

type paymentLink struct {
	ID       string `json:"id"`
	ShortURL string `json:"short_url"`
	Status   string `json:"status"`
	Payments []struct {
		PaymentID string `json:"payment_id"`
		Status    string `json:"status"`
	} `json:"payments"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// Open creates a payment link for req and blocks until it is paid,
// cancelled or expired, or ctx ends. It returns the gateway payment id.
func (r *Razorpay) Open(ctx context.Context, req Request) (string, error) {
	if r.cfg.KeyID == "" || r.cfg.KeySecret == "" {
		return "", fmt.Errorf("%w: razorpay keys not configured", ErrUnavailable)
	}

	body := map[string]interface{}{
		"amount":      Paise(req.Amount),
		"currency":    req.Currency,
		"description": req.Description,
		"customer": map[string]string{
			"contact": req.Contact,
		},
		"notify":          map[string]bool{"sms": false, "email": false},
		"reminder_enable": false,
	}

	var link paymentLink
	if err := r.do(ctx, http.MethodPost, "/payment_links", body, &link); err != nil {
		return "", err
	}
	r.log.Info("payment link created", "link_id", link.ID, "amount", req.Amount.StringFixed(2))
	if r.cfg.OnLink != nil {
		r.cfg.OnLink(link.ShortURL)
	}

	return r.await(ctx, link.ID)
}

func (r *Razorpay) await(ctx context.Context, linkID string) (string, error) {
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
		case <-ticker.C:
		}

		var link paymentLink
		err := r.do(ctx, http.MethodGet, "/payment_links/"+linkID, nil, &link)
		if errors.Is(err, ErrUnavailable) {
			failures++
			r.log.Warn("payment status check failed", "link_id", linkID, "attempt", failures, "error", err)
			if failures >= r.cfg.MaxPollErrors {
				return "", err
			}
			continue
		}
		if err != nil {
			return "", err
		}
		failures = 0

		switch link.Status {
		case "paid":
			for _, p := range link.Payments {
				if p.PaymentID != "" {
					return p.PaymentID, nil
				}
			}
			return "", fmt.Errorf("%w: link %s paid without a payment id", ErrFailed, linkID)
		case "cancelled", "expired":
			return "", fmt.Errorf("%w: link %s %s", ErrCancelled, linkID, link.Status)
		}
	}
}

func (r *Razorpay) do(ctx context.Context, method, path string, in, out interface{}) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode payment request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build payment request: %w", err)
	}
	req.SetBasicAuth(r.cfg.KeyID, r.cfg.KeySecret)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: %s", ErrFailed, r.rejection(method, path, resp))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: invalid response: %w", ErrUnavailable, err)
	}
	return nil
}

// rejection describes a 4xx reply, falling back to the HTTP status when the
// body is not a gateway error document.
func (r *Razorpay) rejection(method, path string, resp *http.Response) string {
	var apiErr apiError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		r.log.Warn("unreadable gateway error body", "method", method, "path", path, "status", resp.StatusCode, "error", err)
		return resp.Status
	}
	if apiErr.Error.Code == "" && apiErr.Error.Description == "" {
		return resp.Status
	}
	return strings.TrimSpace(apiErr.Error.Code + " " + apiErr.Error.Description)
}
