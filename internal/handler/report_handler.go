package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/takumi/carte/internal/middleware"
	"github.com/takumi/carte/internal/model"
	"github.com/takumi/carte/internal/report"
)

// ReportServiceInterface はレポートハンドラーが必要とするサービスインターフェース。
type ReportServiceInterface interface {
	// Submit はレポートと添付ファイルを受け付ける。
	Submit(ctx context.Context, email string, input report.SubmitInput) (*model.Report, error)
	// List はアカウントのレポート一覧を新しい順に返す。
	List(ctx context.Context, email string) ([]model.ReportSummary, error)
}

// ReportHandlerConfig はレポートハンドラーの設定。
type ReportHandlerConfig struct {
	MaxUploadSize int64 // multipartボディ全体の上限（バイト）
}

// ReportHandler は修理レポートのHTTPハンドラー。
type ReportHandler struct {
	service ReportServiceInterface
	config  ReportHandlerConfig
}

// NewReportHandler はReportHandlerを生成する。
func NewReportHandler(service ReportServiceInterface, config ReportHandlerConfig) *ReportHandler {
	return &ReportHandler{
		service: service,
		config:  config,
	}
}

// reportResponse はレポート受付のAPIレスポンス。
type reportResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// reportSummaryResponse はレポート一覧のAPIレスポンス。
type reportSummaryResponse struct {
	ID              string   `json:"id"`
	ProblemType     string   `json:"problem_type"`
	UrgencyLevel    string   `json:"urgency_level"`
	Details         string   `json:"details"`
	Cost            *float64 `json:"cost"`
	AttachmentCount int      `json:"attachment_count"`
	CreatedAt       string   `json:"created_at"`
}

// SubmitReport はmultipart/form-dataのレポート提出を処理する。
// POST /reports
func (h *ReportHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	email, err := middleware.EmailFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	// multipartボディ全体のサイズ上限を強制
	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadSize)
	if err := r.ParseMultipartForm(h.config.MaxUploadSize); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidAttachmentError("request body is not valid multipart form data or exceeds the size limit"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	problemType := r.FormValue("problem_type")
	urgencyLevel := r.FormValue("urgency_level")
	details := r.FormValue("details")

	if problemType == "" || urgencyLevel == "" || details == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("problem_type, urgency_level and details are required"))
		return
	}

	// costは任意フィールド
	var cost *float64
	if costStr := r.FormValue("cost"); costStr != "" {
		parsed, err := strconv.ParseFloat(costStr, 64)
		if err != nil || parsed < 0 {
			writeAPIErrorResponse(w, http.StatusBadRequest,
				model.NewValidationError("cost must be a non-negative number"))
			return
		}
		cost = &parsed
	}

	input := report.SubmitInput{
		ProblemType:  problemType,
		UrgencyLevel: urgencyLevel,
		Details:      details,
		Cost:         cost,
	}

	for _, fh := range r.MultipartForm.File["files"] {
		if fh.Filename == "" {
			writeAPIErrorResponse(w, http.StatusBadRequest,
				model.NewInvalidAttachmentError("attached file has no file name"))
			return
		}

		f, err := fh.Open()
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest,
				model.NewInvalidAttachmentError("failed to read attached file"))
			return
		}
		defer f.Close()

		input.Files = append(input.Files, report.Upload{
			FileName: fh.Filename,
			Content:  f,
		})
	}

	rep, err := h.service.Submit(r.Context(), email, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, reportResponse{
		ID:      rep.ID,
		Message: "Report submitted successfully",
	})
}

// ListReports は認証済みアカウントのレポート一覧を返す。
// GET /reports
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	email, err := middleware.EmailFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	summaries, err := h.service.List(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]reportSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, reportSummaryResponse{
			ID:              s.ID,
			ProblemType:     s.ProblemType,
			UrgencyLevel:    s.UrgencyLevel,
			Details:         s.Details,
			Cost:            s.Cost,
			AttachmentCount: s.AttachmentCount,
			CreatedAt:       s.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
