package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/takumi/carte/internal/middleware"
	"github.com/takumi/carte/internal/model"
	"github.com/takumi/carte/internal/report"
)

type mockReportService struct {
	submitFn func(ctx context.Context, email string, input report.SubmitInput) (*model.Report, error)
	listFn   func(ctx context.Context, email string) ([]model.ReportSummary, error)
}

func (m *mockReportService) Submit(ctx context.Context, email string, input report.SubmitInput) (*model.Report, error) {
	if m.submitFn != nil {
		return m.submitFn(ctx, email, input)
	}
	return nil, nil
}

func (m *mockReportService) List(ctx context.Context, email string) ([]model.ReportSummary, error) {
	if m.listFn != nil {
		return m.listFn(ctx, email)
	}
	return nil, nil
}

func newTestReportHandler(svc ReportServiceInterface) *ReportHandler {
	return NewReportHandler(svc, ReportHandlerConfig{
		MaxUploadSize: 1 << 20, // 1MiB
	})
}

// multipartReportRequest はレポート提出用のmultipartリクエストを構築する。
func multipartReportRequest(t *testing.T, email string, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("failed to write field %s: %v", name, err)
		}
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write file content: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/reports", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req.WithContext(middleware.ContextWithEmail(req.Context(), email))
}

func TestSubmitReport_Success_Returns201(t *testing.T) {
	var gotEmail string
	var gotInput report.SubmitInput
	svc := &mockReportService{
		submitFn: func(ctx context.Context, email string, input report.SubmitInput) (*model.Report, error) {
			gotEmail = email
			gotInput = input
			return &model.Report{ID: "rep-1", Email: email}, nil
		},
	}
	h := newTestReportHandler(svc)

	req := multipartReportRequest(t, "jo@x.com", map[string]string{
		"problem_type":  "engine",
		"urgency_level": "high",
		"details":       "strange knocking noise",
	}, map[string]string{
		"photo.jpg": "jpeg-bytes",
		"log.txt":   "log-content",
	})
	w := httptest.NewRecorder()

	h.SubmitReport(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", resp.StatusCode, http.StatusCreated, w.Body.String())
	}
	if gotEmail != "jo@x.com" {
		t.Errorf("email = %q, want %q", gotEmail, "jo@x.com")
	}
	if gotInput.ProblemType != "engine" || gotInput.UrgencyLevel != "high" {
		t.Errorf("input = %+v", gotInput)
	}
	if len(gotInput.Files) != 2 {
		t.Fatalf("got %d files, want 2", len(gotInput.Files))
	}

	// ファイル内容がそのまま渡ること
	names := map[string]bool{}
	for _, f := range gotInput.Files {
		names[f.FileName] = true
		if _, err := io.ReadAll(f.Content); err != nil {
			t.Errorf("failed to read upload %s: %v", f.FileName, err)
		}
	}
	if !names["photo.jpg"] || !names["log.txt"] {
		t.Errorf("file names = %v", names)
	}

	var body reportResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.ID != "rep-1" {
		t.Errorf("id = %q, want %q", body.ID, "rep-1")
	}
}

func TestSubmitReport_WithCost_PassesParsedValue(t *testing.T) {
	var gotInput report.SubmitInput
	svc := &mockReportService{
		submitFn: func(ctx context.Context, email string, input report.SubmitInput) (*model.Report, error) {
			gotInput = input
			return &model.Report{ID: "rep-2"}, nil
		},
	}
	h := newTestReportHandler(svc)

	req := multipartReportRequest(t, "jo@x.com", map[string]string{
		"problem_type":  "brakes",
		"urgency_level": "medium",
		"details":       "squealing",
		"cost":          "129.50",
	}, nil)
	w := httptest.NewRecorder()

	h.SubmitReport(w, req)

	if w.Result().StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusCreated)
	}
	if gotInput.Cost == nil || *gotInput.Cost != 129.50 {
		t.Errorf("cost = %v, want 129.50", gotInput.Cost)
	}
}

func TestSubmitReport_InvalidCost_Returns400(t *testing.T) {
	h := newTestReportHandler(&mockReportService{})

	req := multipartReportRequest(t, "jo@x.com", map[string]string{
		"problem_type":  "brakes",
		"urgency_level": "medium",
		"details":       "squealing",
		"cost":          "not-a-number",
	}, nil)
	w := httptest.NewRecorder()

	h.SubmitReport(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestSubmitReport_MissingFields_Returns400(t *testing.T) {
	h := newTestReportHandler(&mockReportService{
		submitFn: func(ctx context.Context, email string, input report.SubmitInput) (*model.Report, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	})

	req := multipartReportRequest(t, "jo@x.com", map[string]string{
		"problem_type": "engine",
	}, nil)
	w := httptest.NewRecorder()

	h.SubmitReport(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestSubmitReport_NoSessionEmail_Returns401(t *testing.T) {
	h := newTestReportHandler(&mockReportService{})

	req := httptest.NewRequest(http.MethodPost, "/reports", nil)
	w := httptest.NewRecorder()

	h.SubmitReport(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestSubmitReport_NotMultipart_Returns400(t *testing.T) {
	h := newTestReportHandler(&mockReportService{})

	req := httptest.NewRequest(http.MethodPost, "/reports",
		bytes.NewBufferString(`{"problem_type":"engine"}`))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.ContextWithEmail(req.Context(), "jo@x.com"))
	w := httptest.NewRecorder()

	h.SubmitReport(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestSubmitReport_ServiceFailure_Returns500(t *testing.T) {
	svc := &mockReportService{
		submitFn: func(ctx context.Context, email string, input report.SubmitInput) (*model.Report, error) {
			return nil, errors.New("tx failed")
		},
	}
	h := newTestReportHandler(svc)

	req := multipartReportRequest(t, "jo@x.com", map[string]string{
		"problem_type":  "engine",
		"urgency_level": "high",
		"details":       "noise",
	}, nil)
	w := httptest.NewRecorder()

	h.SubmitReport(w, req)

	if w.Result().StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusInternalServerError)
	}
}

func TestListReports_ReturnsSummaries(t *testing.T) {
	cost := 42.0
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &mockReportService{
		listFn: func(ctx context.Context, email string) ([]model.ReportSummary, error) {
			return []model.ReportSummary{
				{
					Report: model.Report{
						ID:           "rep-1",
						Email:        email,
						ProblemType:  "engine",
						UrgencyLevel: "high",
						Details:      "noise",
						Cost:         &cost,
						CreatedAt:    created,
					},
					AttachmentCount: 2,
				},
			}, nil
		},
	}
	h := newTestReportHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	req = req.WithContext(middleware.ContextWithEmail(req.Context(), "jo@x.com"))
	w := httptest.NewRecorder()

	h.ListReports(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body []reportSummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(body) != 1 {
		t.Fatalf("got %d reports, want 1", len(body))
	}
	if body[0].ID != "rep-1" || body[0].AttachmentCount != 2 {
		t.Errorf("unexpected summary: %+v", body[0])
	}
	if body[0].Cost == nil || *body[0].Cost != 42.0 {
		t.Errorf("cost = %v, want 42.0", body[0].Cost)
	}
	if body[0].CreatedAt != "2025-06-01T12:00:00Z" {
		t.Errorf("created_at = %q", body[0].CreatedAt)
	}
}

func TestListReports_NoSessionEmail_Returns401(t *testing.T) {
	h := newTestReportHandler(&mockReportService{})

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	w := httptest.NewRecorder()

	h.ListReports(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}
