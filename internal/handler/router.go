package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/takumi/carte/internal/metrics"
	"github.com/takumi/carte/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// database/sql.DBのPingContextがこれを満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	HealthChecker     HealthChecker
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig
	MetricsRecorder   middleware.HTTPMetricsRecorder
	MetricsGatherer   prometheus.Gatherer

	// アカウント・認証
	AuthService   AuthServiceInterface
	AccountConfig AccountHandlerConfig

	// 支払い
	PaymentService PaymentServiceInterface

	// レポート
	ReportService ReportServiceInterface
	ReportConfig  ReportHandlerConfig

	// 整備士ディレクトリ
	MechanicService MechanicServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics → Session → RateLimit(General) → CSRF
//
// アカウント登録・認証ルート（/signup など）はセッションミドルウェアの外に配置し、
// クライアントIP単位の認証系レート制限を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルートに効くミドルウェア
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.MetricsRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	}

	accountHandler := NewAccountHandler(deps.AuthService, deps.AccountConfig)
	paymentHandler := NewPaymentHandler(deps.PaymentService)
	reportHandler := NewReportHandler(deps.ReportService, deps.ReportConfig)
	mechanicHandler := NewMechanicHandler(deps.MechanicService)

	// --- 認証不要のルート ---

	// ヘルスチェック（DB接続を確認）
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.HealthChecker != nil {
			if err := deps.HealthChecker.PingContext(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Prometheusスクレイプ
	if deps.MetricsGatherer != nil {
		r.Get("/metrics", metrics.Handler(deps.MetricsGatherer).ServeHTTP)
	}

	// CSRFトークン取得
	r.Get("/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig).ServeHTTP)

	// 整備士ディレクトリ（静的な公開データ）
	r.Get("/mechanics", mechanicHandler.ListMechanics)

	// アカウント登録・認証（クライアントIP単位のレート制限を適用）
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.AuthMiddleware())

		r.Post("/signup", accountHandler.Signup)
		r.Post("/setup_fingerprint", accountHandler.SetupFingerprint)
		r.Post("/save_pin", accountHandler.SavePIN)
		r.Post("/validate_pin", accountHandler.ValidatePIN)
		r.Post("/validate_fingerprint", accountHandler.ValidateFingerprint)
		r.Get("/get_full_name", accountHandler.GetFullName)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General) → CSRF
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

		// 支払い記録
		r.Post("/payments", paymentHandler.RecordPayment)

		// 修理レポート
		r.Post("/reports", reportHandler.SubmitReport)
		r.Get("/reports", reportHandler.ListReports)
	})

	return r
}
