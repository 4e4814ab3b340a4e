// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordSignup()
	RecordLoginSuccess(method string)
	RecordLoginFailure(method string)
	RecordReportSubmitted(attachmentCount int)
	RecordPaymentRecorded()
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	signups          prometheus.Counter
	loginSuccess     *prometheus.CounterVec
	loginFailure     *prometheus.CounterVec
	reportsSubmitted prometheus.Counter
	attachmentsSaved prometheus.Counter
	paymentsRecorded prometheus.Counter
	httpStatus       *prometheus.CounterVec
	requestLatency   prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carte_signups_total",
			Help: "アカウント登録の合計数",
		}),
		loginSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carte_login_success_total",
			Help: "認証方式別のログイン成功数",
		}, []string{"method"}),
		loginFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carte_login_failure_total",
			Help: "認証方式別のログイン失敗数",
		}, []string{"method"}),
		reportsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carte_reports_submitted_total",
			Help: "提出された整備レポートの合計数",
		}),
		attachmentsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carte_report_attachments_total",
			Help: "保存されたレポート添付ファイルの合計数",
		}),
		paymentsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carte_payments_recorded_total",
			Help: "記録された支払いの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carte_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "carte_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.signups,
		c.loginSuccess,
		c.loginFailure,
		c.reportsSubmitted,
		c.attachmentsSaved,
		c.paymentsRecorded,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordSignup はアカウント登録を記録する。
func (c *Collector) RecordSignup() {
	c.signups.Inc()
}

// RecordLoginSuccess はログイン成功を認証方式（pin / fingerprint）ごとに記録する。
func (c *Collector) RecordLoginSuccess(method string) {
	c.loginSuccess.WithLabelValues(method).Inc()
}

// RecordLoginFailure はログイン失敗を認証方式ごとに記録する。
func (c *Collector) RecordLoginFailure(method string) {
	c.loginFailure.WithLabelValues(method).Inc()
}

// RecordReportSubmitted はレポート提出と添付ファイル数を記録する。
func (c *Collector) RecordReportSubmitted(attachmentCount int) {
	c.reportsSubmitted.Inc()
	c.attachmentsSaved.Add(float64(attachmentCount))
}

// RecordPaymentRecorded は支払い記録を記録する。
func (c *Collector) RecordPaymentRecorded() {
	c.paymentsRecorded.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
