package services

import (
	"context"
	"log"

	"paywatch/internal/application/dto"
	portsout "paywatch/internal/application/ports/out"
	apperrors "paywatch/internal/shared_kernel/errors"

	"github.com/shopspring/decimal"
)

// MoneroPaymentService is backed by a custodial wallet RPC. Payments are
// disambiguated natively through integrated addresses, so no amount/window
// matching is needed: the wallet reports incoming transfers per payment id.
type MoneroPaymentService struct {
	developmentMode bool
	wallet          portsout.MoneroWalletGateway
	logger          *log.Logger
}

var _ PaymentService = (*MoneroPaymentService)(nil)

func NewMoneroPaymentService(
	developmentMode bool,
	wallet portsout.MoneroWalletGateway,
	logger *log.Logger,
) *MoneroPaymentService {
	return &MoneroPaymentService{
		developmentMode: developmentMode,
		wallet:          wallet,
		logger:          logger,
	}
}

func (s *MoneroPaymentService) CreateAddress(
	ctx context.Context,
	vendorWallet string,
) (dto.PaymentAddress, *apperrors.AppError) {
	paymentID := newPaymentID()

	if s.wallet != nil {
		address, appErr := s.wallet.MakeIntegratedAddress(ctx, paymentID)
		if appErr == nil {
			return dto.PaymentAddress{Address: address, PaymentID: paymentID}, nil
		}
		s.logger.Printf(
			"failed to create monero integrated address payment_id=%s code=%s message=%s",
			paymentID, appErr.Code, appErr.Message,
		)
	}

	if s.developmentMode {
		s.logger.Printf("using mock xmr address payment_id=%s", paymentID)
		return dto.PaymentAddress{
			Address:   "4A" + paymentID[:10] + "...",
			PaymentID: paymentID,
		}, nil
	}

	return dto.PaymentAddress{}, apperrors.NewRetryable(
		"wallet_unavailable",
		"failed to create payment address",
		map[string]any{"payment_id": paymentID},
	)
}

func (s *MoneroPaymentService) CheckPaid(
	ctx context.Context,
	query dto.PaymentCheckQuery,
) (bool, *apperrors.AppError) {
	if s.wallet != nil {
		received, appErr := s.wallet.IncomingAmount(ctx, query.PaymentID)
		if appErr == nil {
			if received.IsZero() {
				return false, nil
			}
			if query.ExpectedAmount.IsPositive() && received.LessThan(query.ExpectedAmount) {
				s.logger.Printf(
					"xmr payment short payment_id=%s received=%s expected=%s",
					query.PaymentID, received.String(), query.ExpectedAmount.String(),
				)
				return false, nil
			}
			return true, nil
		}
		s.logger.Printf(
			"failed to check monero payment payment_id=%s code=%s message=%s",
			query.PaymentID, appErr.Code, appErr.Message,
		)
	}

	if s.developmentMode {
		return true, nil
	}

	return false, apperrors.NewRetryable(
		"wallet_unavailable",
		"failed to check payment status",
		map[string]any{"payment_id": query.PaymentID},
	)
}

func (s *MoneroPaymentService) Confirmations(ctx context.Context, paymentID string) int {
	s.logger.Printf("confirmations are not tracked per payment for xmr payment_id=%s", paymentID)
	return 0
}

func (s *MoneroPaymentService) MatchedTxHash(paymentID string) (string, bool) {
	return "", false
}

func (s *MoneroPaymentService) Balance(ctx context.Context) decimal.Decimal {
	if s.wallet == nil {
		return decimal.Zero
	}

	balance, appErr := s.wallet.Balance(ctx)
	if appErr != nil {
		s.logger.Printf("failed to get wallet balance code=%s message=%s", appErr.Code, appErr.Message)
		return decimal.Zero
	}

	return balance
}
