//go:build !integration

package bitcoin

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	apperrors "paywatch/internal/shared_kernel/errors"

	"github.com/shopspring/decimal"
)

const testAddress = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestClient(primaryURL, fallbackURL string) *Client {
	return NewClient(Config{
		BlockchainInfoBaseURL: primaryURL,
		BlockCypherBaseURL:    fallbackURL,
		MinRequestInterval:    time.Millisecond,
		HTTPTimeout:           5 * time.Second,
	}, testLogger())
}

func TestAddressTransactionsParsesBlockchainInfoHistory(t *testing.T) {
	since := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	inWindow := since.Add(time.Hour).Unix()
	beforeWindow := since.Add(-time.Hour).Unix()

	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/q/getblockcount":
			io.WriteString(w, "100")
		case "/rawaddr/" + testAddress:
			io.WriteString(w, `{"txs":[
				{"hash":"tx-recent","time":`+formatInt(inWindow)+`,"block_height":95,"out":[
					{"addr":"`+testAddress+`","value":500000},
					{"addr":"1OtherAddr","value":999999},
					{"addr":"`+testAddress+`","value":100000}
				]},
				{"hash":"tx-old","time":`+formatInt(beforeWindow)+`,"block_height":90,"out":[
					{"addr":"`+testAddress+`","value":500000}
				]}
			]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer primary.Close()

	client := newTestClient(primary.URL, "http://unused.invalid")

	transactions, appErr := client.AddressTransactions(context.Background(), testAddress, since)
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if len(transactions) != 1 {
		t.Fatalf("expected one transaction inside the window, got %d", len(transactions))
	}

	tx := transactions[0]
	if tx.Hash != "tx-recent" {
		t.Fatalf("expected tx-recent, got %s", tx.Hash)
	}
	// Only outputs paying our address count: 500000 + 100000 satoshi.
	if !tx.Amount.Equal(decimal.RequireFromString("0.006")) {
		t.Fatalf("expected amount 0.006, got %s", tx.Amount)
	}
	if tx.Confirmations != 6 {
		t.Fatalf("expected 6 confirmations at tip 100 / height 95, got %d", tx.Confirmations)
	}
	if tx.ToAddress != testAddress {
		t.Fatalf("expected to address %s, got %s", testAddress, tx.ToAddress)
	}
}

func TestAddressTransactionsFallsBackToBlockCypher(t *testing.T) {
	since := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer primary.Close()

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/addrs/"+testAddress+"/full" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		io.WriteString(w, `{"txs":[
			{"hash":"tx-cypher","received":"2026-03-01T14:00:00Z","confirmations":3,"outputs":[
				{"addresses":["`+testAddress+`"],"value":500000},
				{"addresses":["1OtherAddr"],"value":42}
			]}
		]}`)
	}))
	defer fallback.Close()

	client := newTestClient(primary.URL, fallback.URL)

	transactions, appErr := client.AddressTransactions(context.Background(), testAddress, since)
	if appErr != nil {
		t.Fatalf("expected fallback to serve the request, got %+v", appErr)
	}
	if len(transactions) != 1 || transactions[0].Hash != "tx-cypher" {
		t.Fatalf("expected tx-cypher from fallback, got %+v", transactions)
	}
	if !transactions[0].Amount.Equal(decimal.RequireFromString("0.005")) {
		t.Fatalf("expected amount 0.005, got %s", transactions[0].Amount)
	}
	if transactions[0].Confirmations != 3 {
		t.Fatalf("expected 3 confirmations, got %d", transactions[0].Confirmations)
	}
}

func TestAddressTransactionsAllProvidersFail(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	client := newTestClient(broken.URL, broken.URL)

	_, appErr := client.AddressTransactions(context.Background(), testAddress, time.Now().UTC())
	if appErr == nil || appErr.Code != "provider_unavailable" {
		t.Fatalf("expected provider_unavailable, got %+v", appErr)
	}
	if !apperrors.IsRetryable(appErr) {
		t.Fatalf("expected retryable error, got %+v", appErr)
	}
	if _, recorded := appErr.Details["blockchain.info"]; !recorded {
		t.Fatalf("expected blockchain.info failure recorded, got %+v", appErr.Details)
	}
	if _, recorded := appErr.Details["blockcypher"]; !recorded {
		t.Fatalf("expected blockcypher failure recorded, got %+v", appErr.Details)
	}
}

func TestTransactionConfirmations(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rawtx/tx-mined":
			io.WriteString(w, `{"block_height":95}`)
		case "/rawtx/tx-mempool":
			io.WriteString(w, `{"block_height":0}`)
		case "/q/getblockcount":
			io.WriteString(w, "100")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer primary.Close()

	client := newTestClient(primary.URL, "http://unused.invalid")

	if got := client.TransactionConfirmations(context.Background(), "tx-mined"); got != 6 {
		t.Fatalf("expected 6 confirmations, got %d", got)
	}
	if got := client.TransactionConfirmations(context.Background(), "tx-mempool"); got != 0 {
		t.Fatalf("expected 0 confirmations for unmined tx, got %d", got)
	}
	if got := client.TransactionConfirmations(context.Background(), "tx-unknown"); got != 0 {
		t.Fatalf("expected 0 confirmations on lookup failure, got %d", got)
	}
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
