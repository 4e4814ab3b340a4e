// Package auth はアカウント登録、認証ファクタの登録・検証、セッション発行を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/takumi/carte/internal/model"
	"github.com/takumi/carte/internal/repository"
)

// Credential は資格情報のハッシュ化と検証のインターフェース。
// credential.Serviceの部分集合として定義する。
type Credential interface {
	// HashPassword は平文パスワードをハッシュ化して返す。
	HashPassword(plaintext string) (string, error)
	// HashPIN は平文PINをハッシュ化して返す。
	HashPIN(plaintext string) (string, error)
	// Verify は平文がエンコード済みハッシュと一致するかを検証する。
	// 空または不正なハッシュに対してはfalseを返す（フェイルクローズ）。
	Verify(plaintext, encoded string) bool
}

// MetricsRecorder は認証イベントのメトリクス記録インターフェース。
// nilを渡した場合は記録をスキップする。
type MetricsRecorder interface {
	RecordSignup()
	RecordLoginSuccess(method string)
	RecordLoginFailure(method string)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	accountRepo repository.AccountRepository
	sessionRepo repository.SessionRepository
	credential  Credential
	metrics     MetricsRecorder
	config      ServiceConfig
}

// NewService はServiceを生成する。
// metricsはnilでもよい。
func NewService(
	accountRepo repository.AccountRepository,
	sessionRepo repository.SessionRepository,
	credential Credential,
	metrics MetricsRecorder,
	config ServiceConfig,
) *Service {
	return &Service{
		accountRepo: accountRepo,
		sessionRepo: sessionRepo,
		credential:  credential,
		metrics:     metrics,
		config:      config,
	}
}

// Signup は新規アカウントを作成する。
// パスワードはハッシュ化してのみ保存する。PINと指紋は未登録の状態で作成される。
// メールアドレスの一意性はストレージ層のユニークインデックスが保証し、
// 重複時は型付きのEmailTakenエラーがそのまま返る。
func (s *Service) Signup(ctx context.Context, fullName, email, password string) (*model.Account, error) {
	passwordHash, err := s.credential.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	account := &model.Account{
		ID:           uuid.New().String(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordSignup()
	}
	slog.Info("account created",
		slog.String("account_id", account.ID),
		slog.String("email", email),
	)

	return account, nil
}

// EnrollFingerprint は指紋テンプレートを登録する。
// テンプレートは不透明な文字列としてそのまま保存する（ハッシュ化しない）。
func (s *Service) EnrollFingerprint(ctx context.Context, email, template string) error {
	if err := s.accountRepo.SetFingerprint(ctx, email, template); err != nil {
		return err
	}

	slog.Info("fingerprint enrolled", slog.String("email", email))
	return nil
}

// SavePIN はPINをハッシュ化して登録する。
func (s *Service) SavePIN(ctx context.Context, email, pin string) error {
	pinHash, err := s.credential.HashPIN(pin)
	if err != nil {
		return fmt.Errorf("failed to hash pin: %w", err)
	}

	if err := s.accountRepo.SetPIN(ctx, email, pinHash); err != nil {
		return err
	}

	slog.Info("pin enrolled", slog.String("email", email))
	return nil
}

// ValidatePIN はPINを検証し、成功時にセッションを発行する。
// アカウントが存在しない場合もPIN未登録の場合も同じ認証失敗で閉じる。
// 未登録のハッシュに対する検証は決して例外にならずfalseになる。
func (s *Service) ValidatePIN(ctx context.Context, email, pin string) (*model.Session, error) {
	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	if account == nil || !account.HasPIN() || !s.credential.Verify(pin, account.PINHash) {
		if s.metrics != nil {
			s.metrics.RecordLoginFailure("pin")
		}
		slog.Warn("pin validation failed", slog.String("email", email))
		return nil, model.NewInvalidCredentialsError()
	}

	session, err := s.createSession(ctx, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordLoginSuccess("pin")
	}
	slog.Info("pin validated", slog.String("email", email))

	return session, nil
}

// ValidateFingerprint は提示された指紋データを検証し、成功時にセッションを発行する。
// 保存済みテンプレートとの比較はテンプレート長に対して一定時間で行う。
// 未知のメールアドレスはAccountNotFound、テンプレート未登録または不一致は認証失敗を返す。
func (s *Service) ValidateFingerprint(ctx context.Context, email, fingerprintData string) (*model.Session, error) {
	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	if account == nil {
		return nil, model.NewAccountNotFoundError()
	}

	if !account.HasFingerprint() || !constantTimeEquals(fingerprintData, account.FingerprintTemplate) {
		if s.metrics != nil {
			s.metrics.RecordLoginFailure("fingerprint")
		}
		slog.Warn("fingerprint validation failed", slog.String("email", email))
		return nil, model.NewInvalidCredentialsError()
	}

	session, err := s.createSession(ctx, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordLoginSuccess("fingerprint")
	}
	slog.Info("fingerprint validated", slog.String("email", email))

	return session, nil
}

// FullName は指定メールアドレスのアカウントの表示名を返す。
func (s *Service) FullName(ctx context.Context, email string) (string, error) {
	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to find account: %w", err)
	}
	if account == nil {
		return "", model.NewAccountNotFoundError()
	}
	return account.FullName, nil
}

// createSession はセッションを作成し永続化する。
// 有効期限は発行時刻 + SessionMaxAge。
func (s *Service) createSession(ctx context.Context, email string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := time.Now()
	session := &model.Session{
		ID:        sessionID,
		Email:     email,
		ExpiresAt: now.Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// constantTimeEquals は2つの文字列を内容長に対して一定時間で比較する。
func constantTimeEquals(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
