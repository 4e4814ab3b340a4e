// Package cleanup は期限切れセッションの自動削除ジョブを提供する。
// セッション参照時にもexpires_atで除外されるため、本ジョブは
// テーブルの肥大化を防ぐための掃除役であり、冪等に実行できる。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SessionDeleter は期限切れセッションの削除を抽象化するインターフェース。
// repository.SessionRepository がこれを満たす。
type SessionDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// SweepJob は期限切れセッションの削除ジョブ。
// 定期実行のバッチジョブとして設計されており、削除対象がなくても成功する。
type SweepJob struct {
	sessions SessionDeleter
	logger   *slog.Logger
}

// NewSweepJob は新しいSweepJobを生成する。
func NewSweepJob(sessions SessionDeleter, logger *slog.Logger) *SweepJob {
	return &SweepJob{
		sessions: sessions,
		logger:   logger,
	}
}

// Run は期限切れセッションを削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *SweepJob) Run(ctx context.Context) error {
	start := time.Now()

	deletedCount, err := j.sessions.DeleteExpired(ctx)
	if err != nil {
		j.logger.Error("セッション掃除ジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("セッション掃除の実行に失敗: %w", err)
	}

	duration := time.Since(start)
	j.logger.Info("セッション掃除ジョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}
