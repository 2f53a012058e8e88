package orders

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log"
	"time"

	portsout "paywatch/internal/application/ports/out"
	"paywatch/internal/domain/entities"
	valueobjects "paywatch/internal/domain/value_objects"
	apperrors "paywatch/internal/shared_kernel/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

type Repository struct {
	db     *sql.DB
	logger *log.Logger
}

var _ portsout.OrderRepository = (*Repository)(nil)

func NewRepository(db *sql.DB, logger *log.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

func (r *Repository) Insert(ctx context.Context, order entities.Order) *apperrors.AppError {
	const insertSQL = `
INSERT INTO app.orders (
  id,
  payment_id,
  currency,
  address,
  expected_amount,
  status,
  confirmations,
  matched_tx_hash,
  created_at,
  expires_at,
  updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

	var matchedTxHash any
	if order.MatchedTxHash != "" {
		matchedTxHash = order.MatchedTxHash
	}

	_, err := r.db.ExecContext(
		ctx,
		insertSQL,
		order.ID,
		order.PaymentID,
		string(order.Currency),
		order.Address,
		order.ExpectedAmount.String(),
		string(order.Status),
		order.Confirmations,
		matchedTxHash,
		order.CreatedAt,
		order.ExpiresAt,
		order.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewInternal(
				"order_id_conflict",
				"order uniqueness constraint failed",
				map[string]any{"error": err.Error(), "order_id": order.ID},
			)
		}

		return apperrors.NewInternal(
			"order_insert_failed",
			"failed to insert order",
			map[string]any{"error": err.Error(), "order_id": order.ID},
		)
	}

	return nil
}

func (r *Repository) FindByID(ctx context.Context, orderID string) (entities.Order, *apperrors.AppError) {
	const query = `
SELECT id, payment_id, currency, address, expected_amount, status, confirmations, matched_tx_hash, created_at, expires_at
FROM app.orders
WHERE id = $1
`

	order, appErr := r.scanOrder(r.db.QueryRowContext(ctx, query, orderID))
	if appErr != nil {
		if appErr.Code == "order_row_missing" {
			return entities.Order{}, apperrors.NewNotFound(
				"order_not_found",
				"order does not exist",
				map[string]any{"order_id": orderID},
			)
		}
		return entities.Order{}, appErr
	}

	return order, nil
}

func (r *Repository) ListPending(ctx context.Context, limit int) ([]entities.Order, *apperrors.AppError) {
	const query = `
SELECT id, payment_id, currency, address, expected_amount, status, confirmations, matched_tx_hash, created_at, expires_at
FROM app.orders
WHERE status = 'pending'
ORDER BY created_at ASC
LIMIT $1
`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewInternal(
			"order_list_query_failed",
			"failed to query pending orders",
			map[string]any{"error": err.Error()},
		)
	}
	defer rows.Close()

	pending := []entities.Order{}
	for rows.Next() {
		order, appErr := r.scanOrder(rows)
		if appErr != nil {
			return nil, appErr
		}
		pending = append(pending, order)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternal(
			"order_list_scan_failed",
			"failed to read pending orders",
			map[string]any{"error": err.Error()},
		)
	}

	return pending, nil
}

func (r *Repository) MarkPaid(ctx context.Context, orderID string, txHash string, confirmations int, paidAt time.Time) *apperrors.AppError {
	const updateSQL = `
UPDATE app.orders
SET status = 'paid',
    matched_tx_hash = $2,
    confirmations = $3,
    updated_at = $4
WHERE id = $1 AND status = 'pending'
`

	return r.execStatusUpdate(ctx, "paid", updateSQL, orderID, txHash, confirmations, paidAt)
}

func (r *Repository) MarkExpired(ctx context.Context, orderID string, expiredAt time.Time) *apperrors.AppError {
	const updateSQL = `
UPDATE app.orders
SET status = 'expired',
    updated_at = $2
WHERE id = $1 AND status = 'pending'
`

	return r.execStatusUpdate(ctx, "expired", updateSQL, orderID, expiredAt)
}

func (r *Repository) UpdateConfirmations(ctx context.Context, orderID string, confirmations int) *apperrors.AppError {
	const updateSQL = `
UPDATE app.orders
SET confirmations = $2,
    updated_at = NOW()
WHERE id = $1 AND status = 'pending'
`

	_, err := r.db.ExecContext(ctx, updateSQL, orderID, confirmations)
	if err != nil {
		return apperrors.NewInternal(
			"order_confirmations_update_failed",
			"failed to update order confirmations",
			map[string]any{"error": err.Error(), "order_id": orderID},
		)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanOrder(row rowScanner) (entities.Order, *apperrors.AppError) {
	var (
		order          entities.Order
		currency       string
		expectedAmount string
		status         string
		matchedTxHash  sql.NullString
	)

	err := row.Scan(
		&order.ID,
		&order.PaymentID,
		&currency,
		&order.Address,
		&expectedAmount,
		&status,
		&order.Confirmations,
		&matchedTxHash,
		&order.CreatedAt,
		&order.ExpiresAt,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, apperrors.NewInternal("order_row_missing", "order row does not exist", nil)
	}
	if err != nil {
		return entities.Order{}, apperrors.NewInternal(
			"order_scan_failed",
			"failed to scan order row",
			map[string]any{"error": err.Error()},
		)
	}

	amount, err := decimal.NewFromString(expectedAmount)
	if err != nil {
		return entities.Order{}, apperrors.NewInternal(
			"order_amount_invalid",
			"stored expected amount is not a valid decimal",
			map[string]any{"error": err.Error(), "order_id": order.ID},
		)
	}

	order.Currency = valueobjects.Currency(currency)
	order.ExpectedAmount = amount
	order.Status = entities.OrderStatus(status)
	order.MatchedTxHash = matchedTxHash.String
	order.CreatedAt = order.CreatedAt.UTC()
	order.ExpiresAt = order.ExpiresAt.UTC()
	return order, nil
}

func (r *Repository) execStatusUpdate(ctx context.Context, target string, updateSQL string, orderID string, args ...any) *apperrors.AppError {
	result, err := r.db.ExecContext(ctx, updateSQL, append([]any{orderID}, args...)...)
	if err != nil {
		return apperrors.NewInternal(
			"order_status_update_failed",
			"failed to update order status",
			map[string]any{"error": err.Error(), "order_id": orderID, "target_status": target},
		)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternal(
			"order_status_update_result_failed",
			"failed to verify order status update",
			map[string]any{"error": err.Error(), "order_id": orderID},
		)
	}
	if rows != 1 {
		return apperrors.NewNotFound(
			"order_not_pending",
			"order is not pending or does not exist",
			map[string]any{"order_id": orderID, "target_status": target},
		)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !stderrors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == "23505"
}
