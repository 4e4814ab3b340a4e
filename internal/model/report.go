package model

import "time"

// Report は修理レポートを表す。
// Costは後続の見積もりで設定される任意項目のためポインタで保持する。
type Report struct {
	ID           string
	Email        string
	ProblemType  string
	UrgencyLevel string
	Details      string
	Cost         *float64
	CreatedAt    time.Time
}

// ReportAttachment はレポートに添付されたファイルを表す。
// StoredNameはアップロードディレクトリ内の保存ファイル名。
type ReportAttachment struct {
	ID         string
	ReportID   string
	FileName   string
	StoredName string
	Size       int64
	CreatedAt  time.Time
}

// ReportSummary はレポート一覧取得用のサマリを表す。
type ReportSummary struct {
	Report
	AttachmentCount int
}
