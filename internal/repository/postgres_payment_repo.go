package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/takumi/carte/internal/model"
)

// PostgresPaymentRepo はPostgreSQLを使用した支払いリポジトリ。
type PostgresPaymentRepo struct {
	db *sql.DB
}

// NewPostgresPaymentRepo はPostgresPaymentRepoを生成する。
func NewPostgresPaymentRepo(db *sql.DB) *PostgresPaymentRepo {
	return &PostgresPaymentRepo{db: db}
}

// Create は支払い記録を作成する。
func (r *PostgresPaymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (id, email, amount, subscription_type, phone_number, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		payment.ID, payment.Email, payment.Amount, payment.SubscriptionType,
		payment.PhoneNumber, payment.Role, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// compile-time interface check
var _ PaymentRepository = (*PostgresPaymentRepo)(nil)
