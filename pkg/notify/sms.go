package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultSMSEndpoint = "https://rest.nexmo.com/sms/json"

var ErrDisabled = errors.New("sms sender is not configured")

type SMSConfig struct {
	APIKey      string
	APISecret   string
	From        string
	CountryCode string
	Endpoint    string
	HTTPClient  *http.Client
}

// SMS sends text messages through the Vonage SMS API.
type SMS struct {
	cfg  SMSConfig
	http *http.Client
	log  *slog.Logger
}

func NewSMS(cfg SMSConfig, log *slog.Logger) *SMS {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultSMSEndpoint
	}
	if cfg.CountryCode == "" {
		cfg.CountryCode = "+91"
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		log.Info("SMS notifications disabled - Vonage credentials not provided",
			"required", "VONAGE_API_KEY, VONAGE_API_SECRET")
	}
	return &SMS{cfg: cfg, http: client, log: log}
}

func (s *SMS) Enabled() bool {
	return s.cfg.APIKey != "" && s.cfg.APISecret != ""
}

type smsResponse struct {
	MessageCount string `json:"message-count"`
	Messages     []struct {
		To        string `json:"to"`
		MessageID string `json:"message-id"`
		Status    string `json:"status"`
		ErrorText string `json:"error-text"`
	} `json:"messages"`
}

// Send delivers text to phone. Local numbers get the configured country code.
func (s *SMS) Send(ctx context.Context, phone, text string) error {
	if !s.Enabled() {
		return ErrDisabled
	}

	to := strings.TrimPrefix(InternationalNumber(phone, s.cfg.CountryCode), "+")
	form := url.Values{
		"api_key":    {s.cfg.APIKey},
		"api_secret": {s.cfg.APISecret},
		"from":       {s.cfg.From},
		"to":         {to},
		"text":       {text},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sms api returned status %d", resp.StatusCode)
	}

	var body smsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode sms response: %w", err)
	}
	if len(body.Messages) == 0 {
		return errors.New("sms api returned no messages")
	}
	if msg := body.Messages[0]; msg.Status != "0" {
		return fmt.Errorf("sms rejected with status %s: %s", msg.Status, msg.ErrorText)
	}

	s.log.Debug("sms sent", "to", to, "message_id", body.Messages[0].MessageID)
	return nil
}

// InternationalNumber prefixes countryCode unless phone is already international.
func InternationalNumber(phone, countryCode string) string {
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return countryCode + phone
}
