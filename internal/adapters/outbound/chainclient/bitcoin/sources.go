package bitcoin

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

var satoshisPerBTC = decimal.New(1, 8)

type transactionSource interface {
	name() string
	fetch(ctx context.Context, address string, since time.Time) ([]entities.Transaction, error)
}

type blockchainInfoSource struct {
	http *resty.Client
}

func newBlockchainInfoSource(baseURL string, timeout time.Duration) *blockchainInfoSource {
	return &blockchainInfoSource{
		http: resty.New().SetBaseURL(strings.TrimRight(baseURL, "/")).SetTimeout(timeout),
	}
}

func (s *blockchainInfoSource) name() string {
	return "blockchain.info"
}

type blockchainInfoAddress struct {
	Txs []struct {
		Hash        string `json:"hash"`
		Time        int64  `json:"time"`
		BlockHeight int64  `json:"block_height"`
		Out         []struct {
			Addr  string `json:"addr"`
			Value int64  `json:"value"`
		} `json:"out"`
	} `json:"txs"`
}

func (s *blockchainInfoSource) fetch(
	ctx context.Context,
	address string,
	since time.Time,
) ([]entities.Transaction, error) {
	tipHeight, err := s.tipHeight(ctx)
	if err != nil {
		return nil, err
	}

	response, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("limit", "50").
		Get("/rawaddr/" + address)
	if err != nil {
		return nil, err
	}
	if response.StatusCode() == http.StatusTooManyRequests {
		return nil, fmt.Errorf("blockchain.info: %w", errRateLimited)
	}
	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("blockchain.info returned status %d", response.StatusCode())
	}

	payload := blockchainInfoAddress{}
	if err := json.Unmarshal(response.Body(), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode blockchain.info payload: %w", err)
	}

	transactions := make([]entities.Transaction, 0, len(payload.Txs))
	for _, tx := range payload.Txs {
		timestamp := time.Unix(tx.Time, 0).UTC()
		if timestamp.Before(since) {
			continue
		}

		received := decimal.Zero
		for _, out := range tx.Out {
			if out.Addr == address {
				received = received.Add(decimal.NewFromInt(out.Value).Div(satoshisPerBTC))
			}
		}

		transactions = append(transactions, entities.Transaction{
			Hash:          tx.Hash,
			Timestamp:     timestamp,
			Amount:        received,
			Confirmations: confirmationsFromHeight(tipHeight, tx.BlockHeight),
			ToAddress:     address,
		})
	}

	return transactions, nil
}

func (s *blockchainInfoSource) tipHeight(ctx context.Context) (int64, error) {
	response, err := s.http.R().SetContext(ctx).Get("/q/getblockcount")
	if err != nil {
		return 0, err
	}
	if response.StatusCode() == http.StatusTooManyRequests {
		return 0, fmt.Errorf("blockchain.info: %w", errRateLimited)
	}
	if response.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("blockchain.info tip height returned status %d", response.StatusCode())
	}

	height, err := strconv.ParseInt(strings.TrimSpace(string(response.Body())), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse blockchain.info tip height: %w", err)
	}

	return height, nil
}

func confirmationsFromHeight(tipHeight, txHeight int64) int {
	if txHeight <= 0 || tipHeight < txHeight {
		return 0
	}
	return int(tipHeight - txHeight + 1)
}

type blockCypherSource struct {
	http  *resty.Client
	token string
}

func newBlockCypherSource(baseURL, token string, timeout time.Duration) *blockCypherSource {
	return &blockCypherSource{
		http:  resty.New().SetBaseURL(strings.TrimRight(baseURL, "/")).SetTimeout(timeout),
		token: token,
	}
}

func (s *blockCypherSource) name() string {
	return "blockcypher"
}

type blockCypherAddress struct {
	Txs []struct {
		Hash          string    `json:"hash"`
		Received      time.Time `json:"received"`
		Confirmations int       `json:"confirmations"`
		Outputs       []struct {
			Addresses []string `json:"addresses"`
			Value     int64    `json:"value"`
		} `json:"outputs"`
	} `json:"txs"`
}

func (s *blockCypherSource) fetch(
	ctx context.Context,
	address string,
	since time.Time,
) ([]entities.Transaction, error) {
	request := s.http.R().
		SetContext(ctx).
		SetQueryParam("limit", "50")
	if s.token != "" {
		request.SetQueryParam("token", s.token)
	}

	response, err := request.Get("/addrs/" + address + "/full")
	if err != nil {
		return nil, err
	}
	if response.StatusCode() == http.StatusTooManyRequests {
		return nil, fmt.Errorf("blockcypher: %w", errRateLimited)
	}
	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("blockcypher returned status %d", response.StatusCode())
	}

	payload := blockCypherAddress{}
	if err := json.Unmarshal(response.Body(), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode blockcypher payload: %w", err)
	}

	transactions := make([]entities.Transaction, 0, len(payload.Txs))
	for _, tx := range payload.Txs {
		timestamp := tx.Received.UTC()
		if timestamp.Before(since) {
			continue
		}

		received := decimal.Zero
		for _, out := range tx.Outputs {
			for _, outAddress := range out.Addresses {
				if outAddress == address {
					received = received.Add(decimal.NewFromInt(out.Value).Div(satoshisPerBTC))
					break
				}
			}
		}

		transactions = append(transactions, entities.Transaction{
			Hash:          tx.Hash,
			Timestamp:     timestamp,
			Amount:        received,
			Confirmations: tx.Confirmations,
			ToAddress:     address,
		})
	}

	return transactions, nil
}
