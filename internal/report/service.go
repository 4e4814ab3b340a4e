// Package report は修理レポートの受付と照会のドメインロジックを提供する。
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/takumi/carte/internal/model"
	"github.com/takumi/carte/internal/repository"
)

// Upload は受け付けた添付ファイル1件を表す。
type Upload struct {
	FileName string
	Content  io.Reader
}

// SubmitInput はレポート受付の入力。
type SubmitInput struct {
	ProblemType  string
	UrgencyLevel string
	Details      string
	Cost         *float64
	Files        []Upload
}

// MetricsRecorder はレポート受付のメトリクス記録インターフェース。
// nilを渡した場合は記録をスキップする。
type MetricsRecorder interface {
	RecordReportSubmitted(attachmentCount int)
}

// Service は修理レポートのサービス層。
type Service struct {
	reportRepo repository.ReportRepository
	store      AttachmentStore
	metrics    MetricsRecorder
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(reportRepo repository.ReportRepository, store AttachmentStore, metrics MetricsRecorder) *Service {
	return &Service{
		reportRepo: reportRepo,
		store:      store,
		metrics:    metrics,
	}
}

// Submit はレポートと添付ファイルを受け付ける。
// 添付ファイル本体の保存後、レポート行と添付メタデータを単一トランザクションで書き込む。
// DB書き込みに失敗した場合は保存済みファイルも取り消し、リクエスト全体を全or無にする。
func (s *Service) Submit(ctx context.Context, email string, input SubmitInput) (*model.Report, error) {
	now := time.Now()
	report := &model.Report{
		ID:           uuid.New().String(),
		Email:        email,
		ProblemType:  input.ProblemType,
		UrgencyLevel: input.UrgencyLevel,
		Details:      input.Details,
		Cost:         input.Cost,
		CreatedAt:    now,
	}

	// 1. 添付ファイル本体を保存
	var attachments []*model.ReportAttachment
	var storedNames []string
	for _, file := range input.Files {
		storedName, size, err := s.store.Save(ctx, file.Content, file.FileName)
		if err != nil {
			s.discardStored(ctx, storedNames)
			return nil, fmt.Errorf("failed to store attachment %q: %w", file.FileName, err)
		}
		storedNames = append(storedNames, storedName)

		attachments = append(attachments, &model.ReportAttachment{
			ID:         uuid.New().String(),
			ReportID:   report.ID,
			FileName:   file.FileName,
			StoredName: storedName,
			Size:       size,
			CreatedAt:  now,
		})
	}

	// 2. レポートと添付メタデータをトランザクションで書き込み
	if err := s.reportRepo.CreateWithAttachments(ctx, report, attachments); err != nil {
		s.discardStored(ctx, storedNames)
		return nil, fmt.Errorf("failed to persist report: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordReportSubmitted(len(attachments))
	}
	slog.Info("report submitted",
		slog.String("report_id", report.ID),
		slog.String("email", email),
		slog.String("problem_type", input.ProblemType),
		slog.String("urgency_level", input.UrgencyLevel),
		slog.Int("attachments", len(attachments)),
	)

	return report, nil
}

// List は指定メールアドレスのレポートサマリを新しい順で返す。
func (s *Service) List(ctx context.Context, email string) ([]model.ReportSummary, error) {
	summaries, err := s.reportRepo.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return summaries, nil
}

// discardStored はロールバック時に保存済みファイルを削除する。
// 削除失敗は後続の掃除に委ねてログのみ残す。
func (s *Service) discardStored(ctx context.Context, storedNames []string) {
	for _, name := range storedNames {
		if err := s.store.Remove(ctx, name); err != nil {
			slog.Warn("failed to discard stored attachment",
				slog.String("stored_name", name),
				slog.String("error", err.Error()),
			)
		}
	}
}
