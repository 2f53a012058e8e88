package ethereum

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"paywatch/internal/domain/entities"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

var errRateLimited = stderrors.New("rate limit exceeded")

// 1 ETH = 10^18 wei.
const weiDecimals = 18

type etherscanSource struct {
	label  string
	http   *resty.Client
	apiKey string
}

func newEtherscanSource(label, baseURL, apiKey string, timeout time.Duration) *etherscanSource {
	return &etherscanSource{
		label:  label,
		http:   resty.New().SetBaseURL(strings.TrimRight(baseURL, "/")).SetTimeout(timeout),
		apiKey: apiKey,
	}
}

func (s *etherscanSource) name() string {
	return s.label
}

type etherscanEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type etherscanTx struct {
	Hash          string `json:"hash"`
	TimeStamp     string `json:"timeStamp"`
	Value         string `json:"value"`
	To            string `json:"to"`
	From          string `json:"from"`
	Confirmations string `json:"confirmations"`
	IsError       string `json:"isError"`
}

func (s *etherscanSource) fetch(
	ctx context.Context,
	address string,
	since time.Time,
) ([]entities.Transaction, error) {
	response, err := s.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"module":     "account",
			"action":     "txlist",
			"address":    address,
			"startblock": "0",
			"endblock":   "99999999",
			"page":       "1",
			"offset":     "100",
			"sort":       "desc",
			"apikey":     s.apiKey,
		}).
		Get("/api")
	if err != nil {
		return nil, err
	}
	if response.StatusCode() == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%s: %w", s.label, errRateLimited)
	}
	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", s.label, response.StatusCode())
	}

	envelope := etherscanEnvelope{}
	if err := json.Unmarshal(response.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", s.label, err)
	}

	if envelope.Status != "1" {
		// An address with no history is the normal "still waiting" case,
		// not a provider failure.
		if strings.EqualFold(strings.TrimSpace(envelope.Message), "No transactions found") {
			return []entities.Transaction{}, nil
		}
		return nil, fmt.Errorf("%s error: %s", s.label, envelope.Message)
	}

	rawTxs := []etherscanTx{}
	if err := json.Unmarshal(envelope.Result, &rawTxs); err != nil {
		return nil, fmt.Errorf("failed to decode %s result: %w", s.label, err)
	}

	transactions := make([]entities.Transaction, 0, len(rawTxs))
	for _, tx := range rawTxs {
		if tx.IsError == "1" {
			continue
		}
		// The provider also reports outgoing transactions.
		if !strings.EqualFold(tx.To, address) {
			continue
		}

		unixSeconds, parseErr := strconv.ParseInt(tx.TimeStamp, 10, 64)
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse %s timestamp %q: %w", s.label, tx.TimeStamp, parseErr)
		}
		timestamp := time.Unix(unixSeconds, 0).UTC()
		if timestamp.Before(since) {
			continue
		}

		valueWei, parseErr := decimal.NewFromString(tx.Value)
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse %s value %q: %w", s.label, tx.Value, parseErr)
		}

		confirmations, _ := strconv.Atoi(tx.Confirmations)

		transactions = append(transactions, entities.Transaction{
			Hash:          tx.Hash,
			Timestamp:     timestamp,
			Amount:        valueWei.Shift(-weiDecimals),
			Confirmations: confirmations,
			ToAddress:     strings.ToLower(tx.To),
		})
	}

	return transactions, nil
}

func (s *etherscanSource) proxyCall(ctx context.Context, params map[string]string) (json.RawMessage, error) {
	query := map[string]string{"module": "proxy", "apikey": s.apiKey}
	for key, value := range params {
		query[key] = value
	}

	response, err := s.http.R().SetContext(ctx).SetQueryParams(query).Get("/api")
	if err != nil {
		return nil, err
	}
	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", s.label, response.StatusCode())
	}

	envelope := struct {
		Result json.RawMessage `json:"result"`
	}{}
	if err := json.Unmarshal(response.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode %s proxy payload: %w", s.label, err)
	}

	return envelope.Result, nil
}

func parseHexQuantity(raw json.RawMessage) (int64, error) {
	quoted := strings.TrimSpace(string(raw))
	unquoted := strings.Trim(quoted, `"`)
	if !strings.HasPrefix(unquoted, "0x") {
		return 0, fmt.Errorf("not a hex quantity: %q", unquoted)
	}

	value, err := strconv.ParseInt(strings.TrimPrefix(unquoted, "0x"), 16, 64)
	if err != nil {
		return 0, err
	}

	return value, nil
}
