package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/takumi/carte/internal/model"
)

// PostgresReportRepo はPostgreSQLを使用したレポートリポジトリ。
type PostgresReportRepo struct {
	db *sql.DB
}

// NewPostgresReportRepo はPostgresReportRepoを生成する。
func NewPostgresReportRepo(db *sql.DB) *PostgresReportRepo {
	return &PostgresReportRepo{db: db}
}

// CreateWithAttachments はレポートと添付メタデータを同一トランザクションで作成する。
// どこかで失敗した場合はリクエスト全体をロールバックする。
func (r *PostgresReportRepo) CreateWithAttachments(ctx context.Context, report *model.Report, attachments []*model.ReportAttachment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// レポートを作成
	_, err = tx.ExecContext(ctx,
		`INSERT INTO reports (id, email, problem_type, urgency_level, details, cost, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		report.ID, report.Email, report.ProblemType, report.UrgencyLevel,
		report.Details, report.Cost, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	// 添付メタデータを作成
	for _, attachment := range attachments {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO report_attachments (id, report_id, file_name, stored_name, size, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			attachment.ID, attachment.ReportID, attachment.FileName,
			attachment.StoredName, attachment.Size, attachment.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert report attachment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListByEmail は指定メールアドレスのレポートサマリを新しい順で返す。
func (r *PostgresReportRepo) ListByEmail(ctx context.Context, email string) ([]model.ReportSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.email, r.problem_type, r.urgency_level, r.details, r.cost, r.created_at,
		        count(a.id) AS attachment_count
		 FROM reports r
		 LEFT JOIN report_attachments a ON a.report_id = r.id
		 WHERE r.email = $1
		 GROUP BY r.id
		 ORDER BY r.created_at DESC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var summaries []model.ReportSummary
	for rows.Next() {
		var s model.ReportSummary
		var cost sql.NullFloat64
		if err := rows.Scan(
			&s.ID, &s.Email, &s.ProblemType, &s.UrgencyLevel, &s.Details,
			&cost, &s.CreatedAt, &s.AttachmentCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		if cost.Valid {
			v := cost.Float64
			s.Cost = &v
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report rows: %w", err)
	}

	return summaries, nil
}

// compile-time interface check
var _ ReportRepository = (*PostgresReportRepo)(nil)
