//go:build !integration

package monero

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "paywatch/internal/shared_kernel/errors"

	"github.com/shopspring/decimal"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newRPCServer(t *testing.T, handler func(method string, params map[string]any) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/json_rpc" {
			t.Errorf("expected /json_rpc path, got %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		request := struct {
			JSONRPC string         `json:"jsonrpc"`
			Method  string         `json:"method"`
			Params  map[string]any `json:"params"`
		}{}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Errorf("failed to decode rpc request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if request.JSONRPC != "2.0" {
			t.Errorf("expected jsonrpc 2.0, got %q", request.JSONRPC)
		}
		io.WriteString(w, handler(request.Method, request.Params))
	}))
}

func TestMakeIntegratedAddress(t *testing.T) {
	server := newRPCServer(t, func(method string, params map[string]any) string {
		if method != "make_integrated_address" {
			t.Errorf("expected make_integrated_address, got %s", method)
		}
		if params["payment_id"] != "pid1234567890abc" {
			t.Errorf("expected payment id forwarded, got %v", params["payment_id"])
		}
		return `{"result":{"integrated_address":"4IntegratedAddr","payment_id":"pid1234567890abc"}}`
	})
	defer server.Close()

	gateway := NewGateway(server.URL, testLogger())

	address, appErr := gateway.MakeIntegratedAddress(context.Background(), "pid1234567890abc")
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if address != "4IntegratedAddr" {
		t.Fatalf("expected integrated address, got %s", address)
	}
}

func TestIncomingAmountSumsPayments(t *testing.T) {
	server := newRPCServer(t, func(method string, _ map[string]any) string {
		if method != "get_payments" {
			t.Errorf("expected get_payments, got %s", method)
		}
		// 1.5 XMR and 0.25 XMR in atomic units.
		return `{"result":{"payments":[{"amount":1500000000000},{"amount":250000000000}]}}`
	})
	defer server.Close()

	gateway := NewGateway(server.URL, testLogger())

	total, appErr := gateway.IncomingAmount(context.Background(), "pid1234567890abc")
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if !total.Equal(decimal.RequireFromString("1.75")) {
		t.Fatalf("expected 1.75 XMR, got %s", total)
	}
}

func TestIncomingAmountWithNoPayments(t *testing.T) {
	server := newRPCServer(t, func(_ string, _ map[string]any) string {
		return `{"result":{}}`
	})
	defer server.Close()

	gateway := NewGateway(server.URL, testLogger())

	total, appErr := gateway.IncomingAmount(context.Background(), "pid1234567890abc")
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if !total.IsZero() {
		t.Fatalf("expected zero incoming amount, got %s", total)
	}
}

func TestBalance(t *testing.T) {
	server := newRPCServer(t, func(method string, _ map[string]any) string {
		if method != "get_balance" {
			t.Errorf("expected get_balance, got %s", method)
		}
		return `{"result":{"balance":12500000000000}}`
	})
	defer server.Close()

	gateway := NewGateway(server.URL, testLogger())

	balance, appErr := gateway.Balance(context.Background())
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if !balance.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("expected 12.5 XMR, got %s", balance)
	}
}

func TestRPCErrorIsRetryable(t *testing.T) {
	server := newRPCServer(t, func(_ string, _ map[string]any) string {
		return `{"error":{"code":-8,"message":"invalid payment id"}}`
	})
	defer server.Close()

	gateway := NewGateway(server.URL, testLogger())

	_, appErr := gateway.IncomingAmount(context.Background(), "bad")
	if appErr == nil || appErr.Code != "wallet_rpc_error" {
		t.Fatalf("expected wallet_rpc_error, got %+v", appErr)
	}
	if !apperrors.IsRetryable(appErr) {
		t.Fatalf("expected retryable error, got %+v", appErr)
	}
}

func TestUnconfiguredWalletURL(t *testing.T) {
	gateway := NewGateway("", testLogger())

	_, appErr := gateway.MakeIntegratedAddress(context.Background(), "pid")
	if appErr == nil || appErr.Code != "wallet_unconfigured" {
		t.Fatalf("expected wallet_unconfigured, got %+v", appErr)
	}
}

func TestWalletUnavailableOnBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, testLogger())

	_, appErr := gateway.Balance(context.Background())
	if appErr == nil || appErr.Code != "wallet_unavailable" {
		t.Fatalf("expected wallet_unavailable, got %+v", appErr)
	}
}
