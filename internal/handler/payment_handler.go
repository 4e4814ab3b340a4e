package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/takumi/carte/internal/middleware"
	"github.com/takumi/carte/internal/model"
	"github.com/takumi/carte/internal/payment"
)

// PaymentServiceInterface は支払いハンドラーが必要とするサービスインターフェース。
type PaymentServiceInterface interface {
	// Record は認証済みアカウントの支払いを記録する。
	Record(ctx context.Context, email string, input payment.RecordInput) (*model.Payment, error)
}

// PaymentHandler はサブスクリプション支払い記録のHTTPハンドラー。
type PaymentHandler struct {
	service PaymentServiceInterface
}

// NewPaymentHandler はPaymentHandlerを生成する。
func NewPaymentHandler(service PaymentServiceInterface) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// recordPaymentRequest は支払い記録リクエストのボディ。
type recordPaymentRequest struct {
	Amount           float64 `json:"amount"`
	SubscriptionType string  `json:"subscription_type"`
	PhoneNumber      string  `json:"phone_number"`
	Role             string  `json:"role"`
}

// paymentResponse は支払い記録のAPIレスポンス。
type paymentResponse struct {
	ID               string  `json:"id"`
	Amount           float64 `json:"amount"`
	SubscriptionType string  `json:"subscription_type"`
	Message          string  `json:"message"`
}

// RecordPayment は支払い記録を処理する。
// POST /payments
func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	email, err := middleware.EmailFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if req.Amount <= 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("amount must be greater than zero"))
		return
	}
	if req.SubscriptionType == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("subscription_type is required"))
		return
	}

	p, err := h.service.Record(r.Context(), email, payment.RecordInput{
		Amount:           req.Amount,
		SubscriptionType: req.SubscriptionType,
		PhoneNumber:      req.PhoneNumber,
		Role:             req.Role,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, paymentResponse{
		ID:               p.ID,
		Amount:           p.Amount,
		SubscriptionType: p.SubscriptionType,
		Message:          "Payment recorded successfully",
	})
}
