package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/takumi/carte/internal/model"
)

// PostgresAccountRepo はPostgreSQLを使用したアカウントリポジトリ。
type PostgresAccountRepo struct {
	db *sql.DB
}

// NewPostgresAccountRepo はPostgresAccountRepoを生成する。
func NewPostgresAccountRepo(db *sql.DB) *PostgresAccountRepo {
	return &PostgresAccountRepo{db: db}
}

// Create はアカウントを作成する。
// 重複メールアドレスの検出はINSERT自体に任せる。
// 事前のSELECTによるcheck-then-actは同時サインアップで競合するため行わない。
func (r *PostgresAccountRepo) Create(ctx context.Context, account *model.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, full_name, email, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		account.ID, account.FullName, account.Email, account.PasswordHash,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.NewEmailTakenError(account.Email)
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// FindByEmail は指定メールアドレスのアカウントを取得する。見つからない場合はnilを返す。
func (r *PostgresAccountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	account := &model.Account{}
	var fingerprint, pinHash sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT id, full_name, email, password_hash, fingerprint_template, pin_hash, created_at, updated_at
		 FROM accounts WHERE email = $1`,
		email,
	).Scan(
		&account.ID, &account.FullName, &account.Email, &account.PasswordHash,
		&fingerprint, &pinHash, &account.CreatedAt, &account.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by email: %w", err)
	}

	account.FingerprintTemplate = fingerprint.String
	account.PINHash = pinHash.String

	return account, nil
}

// SetFingerprint は指紋テンプレートを登録する。
func (r *PostgresAccountRepo) SetFingerprint(ctx context.Context, email, template string) error {
	return r.updateFactor(ctx, email,
		`UPDATE accounts SET fingerprint_template = $2, updated_at = now() WHERE email = $1`,
		template,
	)
}

// SetPIN はPINハッシュを登録する。
func (r *PostgresAccountRepo) SetPIN(ctx context.Context, email, pinHash string) error {
	return r.updateFactor(ctx, email,
		`UPDATE accounts SET pin_hash = $2, updated_at = now() WHERE email = $1`,
		pinHash,
	)
}

// updateFactor は認証ファクタ列の単一行更新を実行する。
// 更新対象が存在しない場合はAccountNotFoundエラーを返す。
func (r *PostgresAccountRepo) updateFactor(ctx context.Context, email, query, value string) error {
	result, err := r.db.ExecContext(ctx, query, email, value)
	if err != nil {
		return fmt.Errorf("failed to update account factor: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewAccountNotFoundError()
	}
	return nil
}

// isUniqueViolation はPostgreSQLの一意制約違反（SQLSTATE 23505）かどうかを判定する。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// compile-time interface check
var _ AccountRepository = (*PostgresAccountRepo)(nil)
