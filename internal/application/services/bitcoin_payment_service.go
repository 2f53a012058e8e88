package services

import (
	"context"
	"log"

	"paywatch/internal/application/dto"
	portsout "paywatch/internal/application/ports/out"
	"paywatch/internal/domain/policies"
	valueobjects "paywatch/internal/domain/value_objects"
	apperrors "paywatch/internal/shared_kernel/errors"

	"github.com/shopspring/decimal"
)

// BitcoinPaymentService verifies payments against a vendor-supplied BTC
// address. Individual payments share the address and are told apart by amount
// and time window; no keys are custodied.
type BitcoinPaymentService struct {
	developmentMode bool
	client          portsout.ChainClient
	tracker         *confirmationTracker
	tolerance       decimal.Decimal
	threshold       int
	logger          *log.Logger
}

var _ PaymentService = (*BitcoinPaymentService)(nil)

func NewBitcoinPaymentService(
	developmentMode bool,
	client portsout.ChainClient,
	logger *log.Logger,
) *BitcoinPaymentService {
	return &BitcoinPaymentService{
		developmentMode: developmentMode,
		client:          client,
		tracker:         newConfirmationTracker(client),
		tolerance:       decimal.RequireFromString("0.00001"),
		threshold:       6,
		logger:          logger,
	}
}

func (s *BitcoinPaymentService) CreateAddress(
	ctx context.Context,
	vendorWallet string,
) (dto.PaymentAddress, *apperrors.AppError) {
	if vendorWallet == "" {
		if s.developmentMode {
			paymentID := newPaymentID()
			s.logger.Printf("using mock btc address payment_id=%s", paymentID)
			return dto.PaymentAddress{
				Address:   "1" + paymentID + "MockBitcoinAddr",
				PaymentID: paymentID,
			}, nil
		}
		return dto.PaymentAddress{}, apperrors.NewValidation(
			"address_missing",
			"vendor BTC wallet address is required",
			nil,
		)
	}

	if !valueobjects.IsValidAddress(valueobjects.CurrencyBTC, vendorWallet) {
		return dto.PaymentAddress{}, apperrors.NewValidation(
			"address_invalid",
			"bitcoin address is invalid",
			map[string]any{"address": vendorWallet},
		)
	}

	paymentID := newPaymentID()
	s.logger.Printf("created btc payment address address=%s payment_id=%s", vendorWallet, paymentID)
	return dto.PaymentAddress{Address: vendorWallet, PaymentID: paymentID}, nil
}

func (s *BitcoinPaymentService) CheckPaid(
	ctx context.Context,
	query dto.PaymentCheckQuery,
) (bool, *apperrors.AppError) {
	if query.Address == "" || !query.ExpectedAmount.IsPositive() {
		s.logger.Printf("btc payment check requires address and expected_amount payment_id=%s", query.PaymentID)
		return false, nil
	}

	createdAt := query.CreatedAt
	if createdAt.IsZero() {
		cached, exists := s.tracker.cachedCreatedAt(query.PaymentID)
		if !exists {
			s.logger.Printf("no created_at time for payment payment_id=%s", query.PaymentID)
			return false, nil
		}
		createdAt = cached
	}

	if s.tracker.hasMatch(query.PaymentID) {
		settled := s.tracker.isSettled(ctx, query.PaymentID, s.threshold)
		if settled {
			s.logger.Printf("btc payment confirmed payment_id=%s", query.PaymentID)
		}
		return settled, nil
	}

	s.tracker.recordRequest(query.PaymentID, query.Address, query.ExpectedAmount, createdAt)

	transactions, appErr := s.client.AddressTransactions(ctx, query.Address, createdAt)
	if appErr != nil {
		if apperrors.IsRetryable(appErr) {
			s.logger.Printf(
				"btc provider failure payment_id=%s code=%s message=%s",
				query.PaymentID, appErr.Code, appErr.Message,
			)
			return false, appErr
		}
		s.logger.Printf(
			"unexpected error checking btc payment payment_id=%s code=%s message=%s",
			query.PaymentID, appErr.Code, appErr.Message,
		)
		return false, nil
	}

	match := policies.FindMatchingPayment(query.ExpectedAmount, s.tolerance, createdAt, transactions)
	if match == nil {
		return false, nil
	}

	s.tracker.recordMatch(query.PaymentID, query.Address, query.ExpectedAmount, createdAt, *match)

	if match.Confirmations >= s.threshold {
		s.logger.Printf(
			"btc payment confirmed payment_id=%s amount=%s confirmations=%d",
			query.PaymentID, match.Amount.String(), match.Confirmations,
		)
		return true, nil
	}

	s.logger.Printf(
		"btc payment pending payment_id=%s amount=%s confirmations=%d/%d",
		query.PaymentID, match.Amount.String(), match.Confirmations, s.threshold,
	)
	return false, nil
}

func (s *BitcoinPaymentService) Confirmations(ctx context.Context, paymentID string) int {
	if !s.tracker.hasMatch(paymentID) {
		s.logger.Printf("cannot get confirmations, transaction not cached payment_id=%s", paymentID)
		return 0
	}

	return s.tracker.confirmations(ctx, paymentID)
}

func (s *BitcoinPaymentService) MatchedTxHash(paymentID string) (string, bool) {
	return s.tracker.matchedTxHash(paymentID)
}

func (s *BitcoinPaymentService) Balance(ctx context.Context) decimal.Decimal {
	s.logger.Printf("balance not available for btc, no wallet is custodied")
	return decimal.Zero
}
