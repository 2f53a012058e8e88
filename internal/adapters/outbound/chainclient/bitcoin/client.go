package bitcoin

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log"
	"net/http"
	"time"

	"paywatch/internal/adapters/outbound/chainclient/shared"
	portsout "paywatch/internal/application/ports/out"
	"paywatch/internal/domain/entities"
	apperrors "paywatch/internal/shared_kernel/errors"
)

const (
	defaultBlockchainInfoBaseURL = "https://blockchain.info"
	defaultBlockCypherBaseURL    = "https://api.blockcypher.com/v1/btc/main"
	defaultMinRequestInterval    = 10 * time.Second
	defaultHTTPTimeout           = 30 * time.Second
)

type Config struct {
	BlockchainInfoBaseURL string
	BlockCypherBaseURL    string
	BlockCypherToken      string
	MinRequestInterval    time.Duration
	HTTPTimeout           time.Duration
}

// Client reads recent BTC transaction history from blockchain.info, falling
// back to BlockCypher. One instance serves every BTC payment and owns the
// provider rate limit.
type Client struct {
	limiter *shared.RateLimiter
	sources []transactionSource
	primary *blockchainInfoSource
	logger  *log.Logger
}

var _ portsout.ChainClient = (*Client)(nil)

func NewClient(cfg Config, logger *log.Logger) *Client {
	baseURL := cfg.BlockchainInfoBaseURL
	if baseURL == "" {
		baseURL = defaultBlockchainInfoBaseURL
	}
	fallbackURL := cfg.BlockCypherBaseURL
	if fallbackURL == "" {
		fallbackURL = defaultBlockCypherBaseURL
	}
	interval := cfg.MinRequestInterval
	if interval <= 0 {
		interval = defaultMinRequestInterval
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	primarySource := newBlockchainInfoSource(baseURL, timeout)

	return &Client{
		limiter: shared.NewRateLimiter(interval),
		sources: []transactionSource{
			primarySource,
			newBlockCypherSource(fallbackURL, cfg.BlockCypherToken, timeout),
		},
		primary: primarySource,
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
			"btc transaction fetch canceled",
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
				c.logger.Printf("btc provider rate limited provider=%s, trying fallback", source.name())
			} else {
				c.logger.Printf("btc provider failed provider=%s error=%v, trying fallback", source.name(), err)
			}
		} else {
			c.logger.Printf("btc fallback provider failed provider=%s error=%v", source.name(), err)
		}
	}

	return nil, apperrors.NewRetryable(
		"provider_unavailable",
		"all bitcoin providers failed",
		failures,
	)
}

type blockchainInfoTx struct {
	BlockHeight int64 `json:"block_height"`
}

// TransactionConfirmations re-reads one transaction's chain position and the
// current tip. Any failure yields 0; the poll loop supplies the retry cadence.
func (c *Client) TransactionConfirmations(ctx context.Context, txHash string) int {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0
	}

	response, err := c.primary.http.R().SetContext(ctx).Get("/rawtx/" + txHash)
	if err != nil || response.StatusCode() != http.StatusOK {
		c.logger.Printf("failed to get btc tx confirmations tx=%s", txHash)
		return 0
	}

	payload := blockchainInfoTx{}
	if err := json.Unmarshal(response.Body(), &payload); err != nil {
		c.logger.Printf("failed to decode btc tx payload tx=%s error=%v", txHash, err)
		return 0
	}

	tipHeight, err := c.primary.tipHeight(ctx)
	if err != nil {
		c.logger.Printf("failed to get btc tip height error=%v", err)
		return 0
	}

	return confirmationsFromHeight(tipHeight, payload.BlockHeight)
}
