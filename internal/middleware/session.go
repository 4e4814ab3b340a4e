// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/takumi/carte/internal/model"
)

const sessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// emailContextKey はリクエストコンテキストに認証済みメールアドレスを格納するためのキー。
var emailContextKey = contextKey("email")

// SessionFinder はセッションの検索に必要なインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionFinder interface {
	FindByID(ctx context.Context, id string) (*model.Session, error)
}

// NewSessionMiddleware はHTTP Only Cookieからセッションを読み取り、
// 有効性を検証するミドルウェアを返す。
// 認証済みメールアドレスをリクエストコンテキストに注入する。
// 期限切れトークンを含む未認証リクエストには401 Unauthorizedを返す。
func NewSessionMiddleware(sessionFinder SessionFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. CookieからセッションIDを取得
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			// 2. セッションの有効性を検証（期限切れはFindByIDがnilを返す）
			session, err := sessionFinder.FindByID(r.Context(), cookie.Value)
			if err != nil {
				slog.Error("failed to find session",
					slog.String("error", err.Error()),
				)
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}
			if session == nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			// 3. 認証済みメールアドレスをコンテキストに注入
			ctx := context.WithValue(r.Context(), emailContextKey, session.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EmailFromContext はリクエストコンテキストから認証済みメールアドレスを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func EmailFromContext(ctx context.Context) (string, error) {
	email, ok := ctx.Value(emailContextKey).(string)
	if !ok || email == "" {
		return "", fmt.Errorf("email not found in context")
	}
	return email, nil
}

// ContextWithEmail はコンテキストにメールアドレスを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailContextKey, email)
}
