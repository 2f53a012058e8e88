package monero

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	portsout "paywatch/internal/application/ports/out"
	apperrors "paywatch/internal/shared_kernel/errors"

	"github.com/shopspring/decimal"
)

const defaultHTTPTimeout = 30 * time.Second

// 1 XMR = 10^12 atomic units.
const piconeroDecimals = 12

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Gateway talks to a monero-wallet-rpc daemon. Unlike the externally-verified
// currencies, XMR payments are custodied: the wallet issues integrated
// addresses and reports incoming transfers per payment id.
type Gateway struct {
	rpcURL      string
	httpClient  *http.Client
	httpTimeout time.Duration
	logger      *log.Logger
}

var _ portsout.MoneroWalletGateway = (*Gateway)(nil)

func NewGateway(rpcURL string, logger *log.Logger) *Gateway {
	return &Gateway{
		rpcURL:      strings.TrimRight(strings.TrimSpace(rpcURL), "/"),
		httpClient:  &http.Client{},
		httpTimeout: defaultHTTPTimeout,
		logger:      logger,
	}
}

func (g *Gateway) MakeIntegratedAddress(ctx context.Context, paymentID string) (string, *apperrors.AppError) {
	result, appErr := g.call(ctx, "make_integrated_address", map[string]any{
		"payment_id": paymentID,
	})
	if appErr != nil {
		return "", appErr
	}

	payload := struct {
		IntegratedAddress string `json:"integrated_address"`
	}{}
	if err := json.Unmarshal(result, &payload); err != nil || payload.IntegratedAddress == "" {
		return "", apperrors.NewRetryable(
			"wallet_response_invalid",
			"wallet returned an invalid integrated address response",
			map[string]any{"payment_id": paymentID},
		)
	}

	return payload.IntegratedAddress, nil
}

func (g *Gateway) IncomingAmount(ctx context.Context, paymentID string) (decimal.Decimal, *apperrors.AppError) {
	result, appErr := g.call(ctx, "get_payments", map[string]any{
		"payment_id": paymentID,
	})
	if appErr != nil {
		return decimal.Zero, appErr
	}

	payload := struct {
		Payments []struct {
			Amount int64 `json:"amount"`
		} `json:"payments"`
	}{}
	if err := json.Unmarshal(result, &payload); err != nil {
		return decimal.Zero, apperrors.NewRetryable(
			"wallet_response_invalid",
			"wallet returned an invalid payments response",
			map[string]any{"payment_id": paymentID},
		)
	}

	total := decimal.Zero
	for _, payment := range payload.Payments {
		total = total.Add(decimal.NewFromInt(payment.Amount).Shift(-piconeroDecimals))
	}

	return total, nil
}

func (g *Gateway) Balance(ctx context.Context) (decimal.Decimal, *apperrors.AppError) {
	result, appErr := g.call(ctx, "get_balance", nil)
	if appErr != nil {
		return decimal.Zero, appErr
	}

	payload := struct {
		Balance int64 `json:"balance"`
	}{}
	if err := json.Unmarshal(result, &payload); err != nil {
		return decimal.Zero, apperrors.NewRetryable(
			"wallet_response_invalid",
			"wallet returned an invalid balance response",
			nil,
		)
	}

	return decimal.NewFromInt(payload.Balance).Shift(-piconeroDecimals), nil
}

func (g *Gateway) call(ctx context.Context, method string, params any) (json.RawMessage, *apperrors.AppError) {
	if g.rpcURL == "" {
		return nil, apperrors.NewRetryable(
			"wallet_unconfigured",
			"monero wallet rpc url is not configured",
			map[string]any{"method": method},
		)
	}

	encoded, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, apperrors.NewInternal(
			"wallet_request_encode_failed",
			"failed to encode wallet rpc request",
			map[string]any{"error": err.Error(), "method": method},
		)
	}

	requestCtx, cancel := context.WithTimeout(ctx, g.httpTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(requestCtx, http.MethodPost, g.rpcURL+"/json_rpc", bytes.NewReader(encoded))
	if err != nil {
		return nil, apperrors.NewInternal(
			"wallet_request_build_failed",
			"failed to build wallet rpc request",
			map[string]any{"error": err.Error(), "method": method},
		)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := g.httpClient.Do(request)
	if err != nil {
		return nil, apperrors.NewRetryable(
			"wallet_unavailable",
			"failed to call wallet rpc endpoint",
			map[string]any{"error": err.Error(), "method": method},
		)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, apperrors.NewRetryable(
			"wallet_unavailable",
			"wallet rpc endpoint returned non-200 status",
			map[string]any{"status_code": response.StatusCode, "method": method},
		)
	}

	rpcResp := rpcResponse{}
	if err := json.NewDecoder(response.Body).Decode(&rpcResp); err != nil {
		return nil, apperrors.NewRetryable(
			"wallet_response_invalid",
			"failed to decode wallet rpc response",
			map[string]any{"error": err.Error(), "method": method},
		)
	}
	if rpcResp.Error != nil {
		return nil, apperrors.NewRetryable(
			"wallet_rpc_error",
			"wallet rpc endpoint returned error",
			map[string]any{
				"method":    method,
				"rpc_error": rpcResp.Error.Message,
				"rpc_code":  rpcResp.Error.Code,
			},
		)
	}

	return rpcResp.Result, nil
}
