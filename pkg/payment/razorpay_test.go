package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"swiftbites.app/storefront/pkg/logger"
)

// linkServer serves a payment link whose status follows statuses, one per poll.
func linkServer(t *testing.T, statuses ...string) (*httptest.Server, *map[string]interface{}) {
	t.Helper()
	var created map[string]interface{}
	var polls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /payment_links", func(w http.ResponseWriter, r *http.Request) {
		if user, pass, ok := r.BasicAuth(); !ok || user != "rzp_test" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewDecoder(r.Body).Decode(&created)
		w.Write([]byte(`{"id":"plink_1","short_url":"https://rzp.io/i/abc","status":"created"}`))
	})
	mux.HandleFunc("GET /payment_links/plink_1", func(w http.ResponseWriter, r *http.Request) {
		i := int(polls.Add(1)) - 1
		if i >= len(statuses) {
			i = len(statuses) - 1
		}
		switch statuses[i] {
		case "paid":
			w.Write([]byte(`{"id":"plink_1","status":"paid","payments":[{"payment_id":"pay_29QQoUBi66xm2f","status":"captured"}]}`))
		case "down":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.Write([]byte(`{"id":"plink_1","status":"` + statuses[i] + `"}`))
		}
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &created
}

func newTestGateway(baseURL string, onLink func(string)) *Razorpay {
	return NewRazorpay(RazorpayConfig{
		KeyID:        "rzp_test",
		KeySecret:    "secret",
		BaseURL:      baseURL,
		PollInterval: time.Millisecond,
		OnLink:       onLink,
	}, logger.Discard())
}

func testRequest() Request {
	return Request{Amount: decimal.RequireFromString("298.50"), Currency: "INR", Contact: "+919876543210"}
}

func TestOpen_Paid(t *testing.T) {
	server, created := linkServer(t, "created", "created", "paid")

	var shortURL string
	gw := newTestGateway(server.URL, func(u string) { shortURL = u })

	paymentID, err := gw.Open(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if paymentID != "pay_29QQoUBi66xm2f" {
		t.Errorf("paymentID = %q", paymentID)
	}
	if shortURL != "https://rzp.io/i/abc" {
		t.Errorf("OnLink got %q", shortURL)
	}
	if amount := (*created)["amount"]; amount != float64(29850) {
		t.Errorf("amount sent = %v, want 29850 paise", amount)
	}
	customer, _ := (*created)["customer"].(map[string]interface{})
	if customer["contact"] != "+919876543210" {
		t.Errorf("contact sent = %v", customer["contact"])
	}
}

func TestOpen_Outcomes(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     error
	}{
		{"cancelled", []string{"created", "cancelled"}, ErrCancelled},
		{"expired", []string{"expired"}, ErrCancelled},
		{"gateway down while polling", []string{"down"}, ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := linkServer(t, tt.statuses...)
			_, err := newTestGateway(server.URL, nil).Open(context.Background(), testRequest())
			if !errors.Is(err, tt.want) {
				t.Errorf("Open() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestOpen_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := newTestGateway(url, nil).Open(context.Background(), testRequest())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Open() error = %v, want ErrUnavailable", err)
	}
}

func TestOpen_Rejected(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"gateway error", `{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too low"}}`, "BAD_REQUEST_ERROR amount too low"},
		{"html body", `<html>bad request</html>`, "400 Bad Request"},
		{"empty body", ``, "400 Bad Request"},
		{"unrelated json", `{"message":"nope"}`, "400 Bad Request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestGateway(server.URL, nil).Open(context.Background(), testRequest())
			if !errors.Is(err, ErrFailed) {
				t.Fatalf("Open() error = %v, want ErrFailed", err)
			}
			if !strings.HasSuffix(err.Error(), ": "+tt.want) {
				t.Errorf("Open() error = %q, want it to end with %q", err, tt.want)
			}
		})
	}
}

func TestOpen_ContextCancelled(t *testing.T) {
	server, _ := linkServer(t, "created")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestGateway(server.URL, nil).Open(ctx, testRequest())
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("Open() error = %v, want ErrCancelled", err)
	}
}

func TestPaise(t *testing.T) {
	tests := map[string]int64{
		"298":    29800,
		"99.99":  9999,
		"0.005":  1,
		"1000.1": 100010,
	}
	for in, want := range tests {
		if got := Paise(decimal.RequireFromString(in)); got != want {
			t.Errorf("Paise(%s) = %d, want %d", in, got, want)
		}
	}
}
