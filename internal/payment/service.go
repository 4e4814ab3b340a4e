// Package payment はサブスクリプション支払い記録のドメインロジックを提供する。
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/takumi/carte/internal/model"
	"github.com/takumi/carte/internal/repository"
)

// RecordInput は支払い記録の入力。
type RecordInput struct {
	Amount           float64
	SubscriptionType string
	PhoneNumber      string
	Role             string
}

// MetricsRecorder は支払い記録のメトリクス記録インターフェース。
// nilを渡した場合は記録をスキップする。
type MetricsRecorder interface {
	RecordPaymentRecorded()
}

// Service は支払い記録のサービス層。
type Service struct {
	paymentRepo repository.PaymentRepository
	metrics     MetricsRecorder
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(paymentRepo repository.PaymentRepository, metrics MetricsRecorder) *Service {
	return &Service{paymentRepo: paymentRepo, metrics: metrics}
}

// Record は認証済みアカウントの支払いを記録する。
// emailはセッションから取得した認証済みの値を渡すこと。
func (s *Service) Record(ctx context.Context, email string, input RecordInput) (*model.Payment, error) {
	payment := &model.Payment{
		ID:               uuid.New().String(),
		Email:            email,
		Amount:           input.Amount,
		SubscriptionType: input.SubscriptionType,
		PhoneNumber:      input.PhoneNumber,
		Role:             input.Role,
		CreatedAt:        time.Now(),
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordPaymentRecorded()
	}

	slog.Info("payment recorded",
		slog.String("payment_id", payment.ID),
		slog.String("email", email),
		slog.String("subscription_type", input.SubscriptionType),
		slog.Float64("amount", input.Amount),
	)

	return payment, nil
}
