package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTopUpGateway_ValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  *GatewayConfig
		wantErr bool
	}{
		{
			name: "valid config",
			config: &GatewayConfig{
				BaseURL:    "https://api.sandbox.payments.example.com",
				ServerKey:  "test-server-key",
				ClientKey:  "test-client-key",
				MerchantID: "test-merchant-id",
			},
			wantErr: false,
		},
		{
			name: "missing server key",
			config: &GatewayConfig{
				BaseURL:    "https://api.sandbox.payments.example.com",
				ClientKey:  "test-client-key",
				MerchantID: "test-merchant-id",
			},
			wantErr: true,
		},
		{
			name: "missing merchant id",
			config: &GatewayConfig{
				BaseURL:   "https://api.sandbox.payments.example.com",
				ServerKey: "test-server-key",
				ClientKey: "test-client-key",
			},
			wantErr: true,
		},
		{
			name: "missing base url",
			config: &GatewayConfig{
				ServerKey:  "test-server-key",
				MerchantID: "test-merchant-id",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := NewTopUpGateway(tt.config)
			err := gw.ValidateConfig()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTopUpGateway_CreateCharge(t *testing.T) {
	tests := []struct {
		name           string
		mockResponse   string
		mockStatusCode int
		wantStatus     string
		wantErr        bool
	}{
		{
			name:           "pending charge",
			mockResponse:   `{"reference_id": "ref-1", "status": "pending", "payment_url": "https://pay.example.com/ref-1"}`,
			mockStatusCode: http.StatusCreated,
			wantStatus:     "pending",
			wantErr:        false,
		},
		{
			name:           "api error",
			mockResponse:   `{"error": "invalid amount"}`,
			mockStatusCode: http.StatusBadRequest,
			wantStatus:     "",
			wantErr:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/charges" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer test-server-key" {
					t.Errorf("unexpected authorization header %q", got)
				}
				var body map[string]interface{}
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Errorf("bad request body: %v", err)
				}
				w.WriteHeader(tt.mockStatusCode)
				w.Write([]byte(tt.mockResponse))
			}))
			defer server.Close()

			gw := NewTopUpGateway(&GatewayConfig{
				BaseURL:    server.URL,
				ServerKey:  "test-server-key",
				MerchantID: "test-merchant-id",
			})

			charge, err := gw.CreateCharge(ChargeRequest{
				ReferenceID: "ref-1",
				Amount:      20.00,
				Method:      "mobile_money",
				Phone:       "1234567890",
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("CreateCharge() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && charge.Status != tt.wantStatus {
				t.Errorf("CreateCharge() status = %v, want %v", charge.Status, tt.wantStatus)
			}
		})
	}
}

func TestTopUpGateway_VerifyCallback(t *testing.T) {
	gw := NewTopUpGateway(&GatewayConfig{
		BaseURL:    "https://api.sandbox.payments.example.com",
		ServerKey:  "test-server-key",
		MerchantID: "test-merchant-id",
	})

	signature := gw.Signature("ref-1", "success", "20.00")
	if !gw.VerifyCallback("ref-1", "success", "20.00", signature) {
		t.Errorf("VerifyCallback() rejected a valid signature")
	}
	if gw.VerifyCallback("ref-1", "success", "20.00", "bogus") {
		t.Errorf("VerifyCallback() accepted a bogus signature")
	}
	if gw.VerifyCallback("ref-2", "success", "20.00", signature) {
		t.Errorf("VerifyCallback() accepted a signature for another reference")
	}
}
