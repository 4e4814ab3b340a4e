// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/takumi/carte/internal/model"
)

// AccountRepository はアカウントデータの永続化インターフェース。
type AccountRepository interface {
	// Create はアカウントを作成する。
	// メールアドレスの一意性はDBのユニークインデックスで強制され、
	// 重複時は型付きのEmailTakenエラーを返す。
	Create(ctx context.Context, account *model.Account) error

	// FindByEmail は指定メールアドレスのアカウントを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.Account, error)

	// SetFingerprint は指紋テンプレートを登録する。
	// アカウントが存在しない場合はAccountNotFoundエラーを返す。
	SetFingerprint(ctx context.Context, email, template string) error

	// SetPIN はPINハッシュを登録する。
	// アカウントが存在しない場合はAccountNotFoundエラーを返す。
	SetPIN(ctx context.Context, email, pinHash string) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// PaymentRepository は支払い記録の永続化インターフェース。
type PaymentRepository interface {
	// Create は支払い記録を作成する。
	Create(ctx context.Context, payment *model.Payment) error
}

// ReportRepository は修理レポートの永続化インターフェース。
type ReportRepository interface {
	// CreateWithAttachments はレポートと添付メタデータを同一トランザクションで作成する。
	CreateWithAttachments(ctx context.Context, report *model.Report, attachments []*model.ReportAttachment) error

	// ListByEmail は指定メールアドレスのレポートサマリを新しい順で返す。
	ListByEmail(ctx context.Context, email string) ([]model.ReportSummary, error)
}

// MechanicRepository は整備士ディレクトリの読み取りインターフェース。
type MechanicRepository interface {
	// List は全整備士を名前順で返す。
	List(ctx context.Context) ([]*model.Mechanic, error)
}
