// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, account, payment, report, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidAttachment  = "INVALID_ATTACHMENT"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewValidationError は必須項目の欠落や不正値のエラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
		Action:   "Check the request fields and try again.",
	}
}

// NewEmailTakenError は登録済みメールアドレスでのサインアップエラーを生成する。
func NewEmailTakenError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  fmt.Sprintf("an account with email %s already exists", email),
		Category: "account",
		Action:   "Log in instead, or sign up with a different email address.",
	}
}

// NewAccountNotFoundError は未登録メールアドレスのエラーを生成する。
func NewAccountNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeAccountNotFound,
		Message:  "account not found",
		Category: "account",
		Action:   "Check the email address or sign up first.",
	}
}

// NewInvalidCredentialsError は認証情報不一致のエラーを生成する。
// PINや指紋が未登録のまま検証された場合もこのエラーで閉じる。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "authentication failed",
		Category: "auth",
		Action:   "Check your credentials and try again.",
	}
}

// NewUnauthorizedError はセッション未認証のエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "authentication required",
		Category: "auth",
		Action:   "Log in and try again.",
	}
}

// NewInvalidAttachmentError は添付ファイルの不正エラーを生成する。
func NewInvalidAttachmentError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidAttachment,
		Message:  fmt.Sprintf("invalid attachment: %s", reason),
		Category: "report",
		Action:   "Check the attached files and try again.",
	}
}

// NewInternalError は内部エラーを生成する。
// 内部の詳細はログのみに記録し、クライアントには一般的なメッセージを返す。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "internal server error",
		Category: "system",
		Action:   "Please wait a moment and try again.",
	}
}
