package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/takumi/carte/internal/middleware"
	"github.com/takumi/carte/internal/model"
	"github.com/takumi/carte/internal/payment"
)

type mockPaymentService struct {
	recordFn func(ctx context.Context, email string, input payment.RecordInput) (*model.Payment, error)
}

func (m *mockPaymentService) Record(ctx context.Context, email string, input payment.RecordInput) (*model.Payment, error) {
	if m.recordFn != nil {
		return m.recordFn(ctx, email, input)
	}
	return nil, nil
}

// authenticatedRequest はセッションミドルウェア通過後のリクエストを模擬する。
func authenticatedRequest(method, path, body, email string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.ContextWithEmail(req.Context(), email))
}

func TestRecordPayment_Success_Returns201(t *testing.T) {
	var gotEmail string
	var gotInput payment.RecordInput
	svc := &mockPaymentService{
		recordFn: func(ctx context.Context, email string, input payment.RecordInput) (*model.Payment, error) {
			gotEmail = email
			gotInput = input
			return &model.Payment{
				ID:               "pay-1",
				Email:            email,
				Amount:           input.Amount,
				SubscriptionType: input.SubscriptionType,
			}, nil
		},
	}
	h := NewPaymentHandler(svc)

	req := authenticatedRequest(http.MethodPost, "/payments",
		`{"amount":49.99,"subscription_type":"premium","phone_number":"080-1234-5678","role":"driver"}`,
		"jo@x.com")
	w := httptest.NewRecorder()

	h.RecordPayment(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	if gotEmail != "jo@x.com" {
		t.Errorf("email = %q, want %q", gotEmail, "jo@x.com")
	}
	if gotInput.Amount != 49.99 || gotInput.SubscriptionType != "premium" {
		t.Errorf("input = %+v", gotInput)
	}

	var body paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.ID != "pay-1" {
		t.Errorf("id = %q, want %q", body.ID, "pay-1")
	}
}

func TestRecordPayment_NoSessionEmail_Returns401(t *testing.T) {
	svc := &mockPaymentService{
		recordFn: func(ctx context.Context, email string, input payment.RecordInput) (*model.Payment, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	h := NewPaymentHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/payments",
		bytes.NewBufferString(`{"amount":10,"subscription_type":"basic"}`))
	w := httptest.NewRecorder()

	h.RecordPayment(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestRecordPayment_InvalidAmount_Returns400(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero amount", `{"amount":0,"subscription_type":"basic"}`},
		{"negative amount", `{"amount":-5,"subscription_type":"basic"}`},
		{"missing subscription_type", `{"amount":10}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPaymentHandler(&mockPaymentService{})

			req := authenticatedRequest(http.MethodPost, "/payments", tt.body, "jo@x.com")
			w := httptest.NewRecorder()

			h.RecordPayment(w, req)

			if w.Result().StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
			}
		})
	}
}

func TestRecordPayment_ServiceFailure_Returns500(t *testing.T) {
	svc := &mockPaymentService{
		recordFn: func(ctx context.Context, email string, input payment.RecordInput) (*model.Payment, error) {
			return nil, errors.New("insert failed")
		},
	}
	h := NewPaymentHandler(svc)

	req := authenticatedRequest(http.MethodPost, "/payments",
		`{"amount":10,"subscription_type":"basic"}`, "jo@x.com")
	w := httptest.NewRecorder()

	h.RecordPayment(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
	}

	// 内部エラーの詳細はレスポンスに含まれない
	var body apiErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.Code != model.ErrCodeInternal {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeInternal)
	}
}
