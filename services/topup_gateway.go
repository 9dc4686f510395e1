package services

import (
	"bytes"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"
)

// GatewayConfig holds the mobile-money provider configuration.
type GatewayConfig struct {
	BaseURL      string
	ServerKey    string
	ClientKey    string
	IsProduction bool
	MerchantID   string
	CallbackURL  string
}

// TopUpGateway talks to the external mobile-money provider that funds
// wallet top-ups. The provider confirms charges asynchronously through a
// signed callback.
type TopUpGateway struct {
	config     *GatewayConfig
	httpClient *http.Client
}

var (
	topUpGateway *TopUpGateway
	gatewayOnce  sync.Once
)

// GetTopUpGateway returns the singleton gateway configured from the
// environment. It returns nil when no provider is configured, in which
// case top-ups are credited directly.
func GetTopUpGateway() *TopUpGateway {
	gatewayOnce.Do(func() {
		serverKey := os.Getenv("TOPUP_SERVER_KEY")
		if serverKey == "" {
			return
		}
		baseURL := os.Getenv("TOPUP_BASE_URL")
		if baseURL == "" {
			baseURL = "https://api.sandbox.payments.example.com"
		}
		topUpGateway = &TopUpGateway{
			config: &GatewayConfig{
				BaseURL:      baseURL,
				ServerKey:    serverKey,
				ClientKey:    os.Getenv("TOPUP_CLIENT_KEY"),
				IsProduction: os.Getenv("TOPUP_ENV") == "production",
				MerchantID:   os.Getenv("TOPUP_MERCHANT_ID"),
				CallbackURL:  os.Getenv("TOPUP_CALLBACK_URL"),
			},
			httpClient: &http.Client{
				Timeout: 30 * time.Second,
			},
		}
	})
	return topUpGateway
}

// NewTopUpGateway builds a gateway with an explicit configuration; used
// by tests to point at a stub server.
func NewTopUpGateway(config *GatewayConfig) *TopUpGateway {
	return &TopUpGateway{
		config:     config,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ValidateConfig checks that the provider credentials are complete.
func (g *TopUpGateway) ValidateConfig() error {
	if g.config.BaseURL == "" {
		return fmt.Errorf("TOPUP_BASE_URL is not set")
	}
	if g.config.ServerKey == "" {
		return fmt.Errorf("TOPUP_SERVER_KEY is not set")
	}
	if g.config.MerchantID == "" {
		return fmt.Errorf("TOPUP_MERCHANT_ID is not set")
	}
	return nil
}

// ChargeRequest is sent to the provider to start a top-up charge.
type ChargeRequest struct {
	ReferenceID string  `json:"reference_id"`
	Amount      float64 `json:"amount"`
	Method      string  `json:"method"`
	Phone       string  `json:"phone"`
	Description string  `json:"description,omitempty"`
}

// ChargeResponse is the provider's answer: where the customer completes
// the payment and when the charge expires.
type ChargeResponse struct {
	ReferenceID string `json:"reference_id"`
	Status      string `json:"status"`
	PaymentURL  string `json:"payment_url,omitempty"`
	QRString    string `json:"qr_string,omitempty"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}

// CreateCharge posts a charge to the provider API.
func (g *TopUpGateway) CreateCharge(req ChargeRequest) (*ChargeResponse, error) {
	if err := g.ValidateConfig(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]interface{}{
		"merchant_id":  g.config.MerchantID,
		"reference_id": req.ReferenceID,
		"amount":       req.Amount,
		"method":       req.Method,
		"phone":        req.Phone,
		"description":  req.Description,
		"callback_url": g.config.CallbackURL,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest(http.MethodPost, g.config.BaseURL+"/v1/charges", bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.config.ServerKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(body))
	}

	var charge ChargeResponse
	if err := json.Unmarshal(body, &charge); err != nil {
		return nil, err
	}
	return &charge, nil
}

// Signature computes the callback signature for a reference/status/amount
// triple: sha512(reference_id + status + amount + server_key).
func (g *TopUpGateway) Signature(referenceID, status, amount string) string {
	sum := sha512.Sum512([]byte(referenceID + status + amount + g.config.ServerKey))
	return hex.EncodeToString(sum[:])
}

// VerifyCallback checks the provider's callback signature.
func (g *TopUpGateway) VerifyCallback(referenceID, status, amount, signature string) bool {
	return g.Signature(referenceID, status, amount) == signature
}
