package ethereum

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log"
	"time"

	"paywatch/internal/adapters/outbound/chainclient/shared"
	portsout "paywatch/internal/application/ports/out"
	"paywatch/internal/domain/entities"
	apperrors "paywatch/internal/shared_kernel/errors"
)

const (
	defaultEtherscanBaseURL   = "https://api.etherscan.io"
	defaultMinRequestInterval = 200 * time.Millisecond
	defaultHTTPTimeout        = 30 * time.Second
	primaryLabel              = "etherscan"
	fallbackLabel             = "etherscan_fallback"
)

type Config struct {
	EtherscanBaseURL   string
	EtherscanAPIKey    string
	FallbackBaseURL    string
	FallbackAPIKey     string
	MinRequestInterval time.Duration
	HTTPTimeout        time.Duration
}

// Client reads recent ETH transaction history through the Etherscan account
// API, optionally falling back to a second Etherscan-compatible endpoint.
type Client struct {
	limiter *shared.RateLimiter
	primary *etherscanSource
	sources []*etherscanSource
	logger  *log.Logger
}

var _ portsout.ChainClient = (*Client)(nil)

func NewClient(cfg Config, logger *log.Logger) *Client {
	baseURL := cfg.EtherscanBaseURL
	if baseURL == "" {
		baseURL = defaultEtherscanBaseURL
	}
	interval := cfg.MinRequestInterval
	if interval <= 0 {
		interval = defaultMinRequestInterval
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	primary := newEtherscanSource(primaryLabel, baseURL, cfg.EtherscanAPIKey, timeout)
	sources := []*etherscanSource{primary}
	if cfg.FallbackBaseURL != "" {
		fallbackKey := cfg.FallbackAPIKey
		if fallbackKey == "" {
			fallbackKey = cfg.EtherscanAPIKey
		}
		sources = append(sources, newEtherscanSource(fallbackLabel, cfg.FallbackBaseURL, fallbackKey, timeout))
	}

	return &Client{
		limiter: shared.NewRateLimiter(interval),
		primary: primary,
		sources: sources,
		logger:  logger,
	}
}

func (c *Client) AddressTransactions(
	ctx context.Context,
	address string,
	since time.Time,
) ([]entities.Transaction, *apperrors.AppError) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperrors.NewInternal(
			"request_canceled",
			"eth transaction fetch canceled",
			map[string]any{"error": err.Error()},
		)
	}

	failures := map[string]any{}
	for i, source := range c.sources {
		transactions, err := source.fetch(ctx, address, since)
		if err == nil {
			return transactions, nil
		}

		failures[source.name()] = err.Error()
		if i < len(c.sources)-1 {
			if stderrors.Is(err, errRateLimited) {
				c.logger.Printf("eth provider rate limited provider=%s, trying fallback", source.name())
			} else {
				c.logger.Printf("eth provider failed provider=%s error=%v, trying fallback", source.name(), err)
			}
		} else {
			c.logger.Printf("eth provider failed provider=%s error=%v", source.name(), err)
		}
	}

	return nil, apperrors.NewRetryable(
		"provider_unavailable",
		"all ethereum providers failed",
		failures,
	)
}

// TransactionConfirmations combines a receipt lookup with the current best
// block number: currentBlock - txBlock + 1, floored at zero. Either lookup
// failing yields 0.
func (c *Client) TransactionConfirmations(ctx context.Context, txHash string) int {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0
	}

	receiptRaw, err := c.primary.proxyCall(ctx, map[string]string{
		"action": "eth_getTransactionReceipt",
		"txhash": txHash,
	})
	if err != nil {
		c.logger.Printf("failed to get eth tx receipt tx=%s error=%v", txHash, err)
		return 0
	}

	receipt := struct {
		BlockNumber string `json:"blockNumber"`
	}{}
	if err := json.Unmarshal(receiptRaw, &receipt); err != nil || receipt.BlockNumber == "" {
		return 0
	}

	txBlock, err := parseHexQuantity(json.RawMessage(`"` + receipt.BlockNumber + `"`))
	if err != nil {
		return 0
	}

	blockRaw, err := c.primary.proxyCall(ctx, map[string]string{"action": "eth_blockNumber"})
	if err != nil {
		c.logger.Printf("failed to get eth block number error=%v", err)
		return 0
	}

	currentBlock, err := parseHexQuantity(blockRaw)
	if err != nil {
		return 0
	}

	confirmations := currentBlock - txBlock + 1
	if confirmations < 0 {
		return 0
	}

	return int(confirmations)
}
