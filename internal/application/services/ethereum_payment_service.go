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

// EthereumPaymentService mirrors the bitcoin service for a vendor-supplied
// ETH address, with the address kept in its lower-cased form throughout
// matching and caching.
type EthereumPaymentService struct {
	developmentMode bool
	client          portsout.ChainClient
	tracker         *confirmationTracker
	tolerance       decimal.Decimal
	threshold       int
	logger          *log.Logger
}

var _ PaymentService = (*EthereumPaymentService)(nil)

func NewEthereumPaymentService(
	developmentMode bool,
	client portsout.ChainClient,
	logger *log.Logger,
) *EthereumPaymentService {
	return &EthereumPaymentService{
		developmentMode: developmentMode,
		client:          client,
		tracker:         newConfirmationTracker(client),
		tolerance:       decimal.RequireFromString("0.001"),
		threshold:       12,
		logger:          logger,
	}
}

func (s *EthereumPaymentService) CreateAddress(
	ctx context.Context,
	vendorWallet string,
) (dto.PaymentAddress, *apperrors.AppError) {
	if vendorWallet == "" {
		if s.developmentMode {
			paymentID := newPaymentID()
			s.logger.Printf("using mock eth address payment_id=%s", paymentID)
			return dto.PaymentAddress{
				Address:   "0x" + paymentID + "000000000000000000000000",
				PaymentID: paymentID,
			}, nil
		}
		return dto.PaymentAddress{}, apperrors.NewValidation(
			"address_missing",
			"vendor ETH wallet address is required",
			nil,
		)
	}

	if !valueobjects.IsValidAddress(valueobjects.CurrencyETH, vendorWallet) {
		return dto.PaymentAddress{}, apperrors.NewValidation(
			"address_invalid",
			"ethereum address is invalid",
			map[string]any{"address": vendorWallet},
		)
	}

	normalized, appErr := valueobjects.NormalizeETHAddress(vendorWallet)
	if appErr != nil {
		return dto.PaymentAddress{}, appErr
	}

	paymentID := newPaymentID()
	s.logger.Printf("created eth payment address address=%s payment_id=%s", normalized, paymentID)
	return dto.PaymentAddress{Address: normalized, PaymentID: paymentID}, nil
}

func (s *EthereumPaymentService) CheckPaid(
	ctx context.Context,
	query dto.PaymentCheckQuery,
) (bool, *apperrors.AppError) {
	if query.Address == "" || !query.ExpectedAmount.IsPositive() {
		s.logger.Printf("eth payment check requires address and expected_amount payment_id=%s", query.PaymentID)
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
			s.logger.Printf("eth payment confirmed payment_id=%s", query.PaymentID)
		}
		return settled, nil
	}

	s.tracker.recordRequest(query.PaymentID, query.Address, query.ExpectedAmount, createdAt)

	transactions, appErr := s.client.AddressTransactions(ctx, query.Address, createdAt)
	if appErr != nil {
		if apperrors.IsRetryable(appErr) {
			s.logger.Printf(
				"eth provider failure payment_id=%s code=%s message=%s",
				query.PaymentID, appErr.Code, appErr.Message,
			)
			return false, appErr
		}
		s.logger.Printf(
			"unexpected error checking eth payment payment_id=%s code=%s message=%s",
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
			"eth payment confirmed payment_id=%s amount=%s confirmations=%d",
			query.PaymentID, match.Amount.String(), match.Confirmations,
		)
		return true, nil
	}

	s.logger.Printf(
		"eth payment pending payment_id=%s amount=%s confirmations=%d/%d",
		query.PaymentID, match.Amount.String(), match.Confirmations, s.threshold,
	)
	return false, nil
}

func (s *EthereumPaymentService) Confirmations(ctx context.Context, paymentID string) int {
	if !s.tracker.hasMatch(paymentID) {
		s.logger.Printf("cannot get confirmations, transaction not cached payment_id=%s", paymentID)
		return 0
	}

	return s.tracker.confirmations(ctx, paymentID)
}

func (s *EthereumPaymentService) MatchedTxHash(paymentID string) (string, bool) {
	return s.tracker.matchedTxHash(paymentID)
}

func (s *EthereumPaymentService) Balance(ctx context.Context) decimal.Decimal {
	s.logger.Printf("balance not available for eth, no wallet is custodied")
	return decimal.Zero
}
