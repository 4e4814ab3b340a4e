// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/takumi/carte/internal/model"
)

const sessionCookieName = "session_id"

// AuthServiceInterface はアカウントハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Signup は新規アカウントを登録する。
	Signup(ctx context.Context, fullName, email, password string) (*model.Account, error)
	// EnrollFingerprint は指紋テンプレートをアカウントに登録する。
	EnrollFingerprint(ctx context.Context, email, template string) error
	// SavePIN はPINをハッシュ化して保存する。
	SavePIN(ctx context.Context, email, pin string) error
	// ValidatePIN はPINを検証し、成功時にセッションを発行する。
	ValidatePIN(ctx context.Context, email, pin string) (*model.Session, error)
	// ValidateFingerprint は提示された指紋データを検証し、成功時にセッションを発行する。
	ValidateFingerprint(ctx context.Context, email, fingerprintData string) (*model.Session, error)
	// FullName はアカウントの表示名を返す。
	FullName(ctx context.Context, email string) (string, error)
}

// AccountHandlerConfig はアカウントハンドラーの設定。
type AccountHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AccountHandler はアカウント登録・認証のHTTPハンドラー。
type AccountHandler struct {
	service AuthServiceInterface
	config  AccountHandlerConfig
}

// NewAccountHandler はAccountHandlerを生成する。
func NewAccountHandler(service AuthServiceInterface, config AccountHandlerConfig) *AccountHandler {
	return &AccountHandler{
		service: service,
		config:  config,
	}
}

// signupRequest はサインアップリクエストのボディ。
type signupRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// setupFingerprintRequest は指紋登録リクエストのボディ。
type setupFingerprintRequest struct {
	Email           string `json:"email"`
	FingerprintData string `json:"fingerprint_data"`
}

// savePINRequest はPIN登録リクエストのボディ。
type savePINRequest struct {
	Email string `json:"email"`
	PIN   string `json:"pin"`
}

// validatePINRequest はPIN検証リクエストのボディ。
type validatePINRequest struct {
	Email string `json:"email"`
	PIN   string `json:"pin"`
}

// validateFingerprintRequest は指紋検証リクエストのボディ。
type validateFingerprintRequest struct {
	Email           string `json:"email"`
	FingerprintData string `json:"fingerprint_data"`
}

// messageResponse は成功時の統一レスポンス。
type messageResponse struct {
	Message string `json:"message"`
}

// Signup は新規アカウント登録を処理する。
// POST /signup
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if req.FullName == "" || req.Email == "" || req.Password == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("full_name, email and password are required"))
		return
	}

	if _, err := h.service.Signup(r.Context(), req.FullName, req.Email, req.Password); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "Account created successfully"})
}

// SetupFingerprint は指紋テンプレートの登録を処理する。
// POST /setup_fingerprint
func (h *AccountHandler) SetupFingerprint(w http.ResponseWriter, r *http.Request) {
	var req setupFingerprintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if req.Email == "" || req.FingerprintData == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("email and fingerprint_data are required"))
		return
	}

	if err := h.service.EnrollFingerprint(r.Context(), req.Email, req.FingerprintData); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Fingerprint enrolled successfully"})
}

// SavePIN はPINの登録を処理する。
// POST /save_pin
func (h *AccountHandler) SavePIN(w http.ResponseWriter, r *http.Request) {
	var req savePINRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if req.Email == "" || req.PIN == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("email and pin are required"))
		return
	}

	if err := h.service.SavePIN(r.Context(), req.Email, req.PIN); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "PIN saved successfully"})
}

// ValidatePIN はPINによるログインを処理する。
// POST /validate_pin
func (h *AccountHandler) ValidatePIN(w http.ResponseWriter, r *http.Request) {
	var req validatePINRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if req.Email == "" || req.PIN == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("email and pin are required"))
		return
	}

	session, err := h.service.ValidatePIN(r.Context(), req.Email, req.PIN)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.setSessionCookie(w, session)
	writeJSON(w, http.StatusOK, messageResponse{Message: "PIN validated successfully"})
}

// ValidateFingerprint は指紋によるログインを処理する。
// POST /validate_fingerprint
func (h *AccountHandler) ValidateFingerprint(w http.ResponseWriter, r *http.Request) {
	var req validateFingerprintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if req.Email == "" || req.FingerprintData == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("email and fingerprint_data are required"))
		return
	}

	session, err := h.service.ValidateFingerprint(r.Context(), req.Email, req.FingerprintData)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.setSessionCookie(w, session)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Fingerprint validated successfully"})
}

// GetFullName はアカウントの表示名を返す。
// GET /get_full_name?email=xxx
func (h *AccountHandler) GetFullName(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("email query parameter is required"))
		return
	}

	fullName, err := h.service.FullName(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"full_name": fullName})
}

// setSessionCookie は認証成功時のセッションCookieを設定する（HTTP Only）。
func (h *AccountHandler) setSessionCookie(w http.ResponseWriter, session *model.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// --- ヘルパー関数 ---

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeInvalidRequestBody はリクエストボディ解析失敗のエラーレスポンスを書き込む。
func writeInvalidRequestBody(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusBadRequest,
		model.NewValidationError("failed to parse request body"))
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, model.NewInternalError())
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeValidation, model.ErrCodeEmailTaken, model.ErrCodeInvalidAttachment:
		return http.StatusBadRequest
	case model.ErrCodeAccountNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidCredentials, model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
