package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 予約の状態遷移（transition: hold, confirm, cancel, no_show / result: success, conflict, invalid_transition, payment_rejected, not_found, error）
	ReservationTransitionsTotal *prometheus.CounterVec

	// 期限切れチェックの結果（outcome: expired, resolved, not_found, error）
	ExpiryChecksTotal *prometheus.CounterVec

	// 完了スイープの実行回数（result: success, skipped, error）
	CompletionSweepsTotal *prometheus.CounterVec

	// COMPLETE に遷移した予約の累計
	CompletedReservationsTotal prometheus.Counter

	// 遅延タスクの処理結果（result: scheduled, schedule_failed, canceled, succeeded, failed, unknown）
	ScheduledTasksTotal *prometheus.CounterVec

	// 分散ロックの操作時間（operation: acquire/release, status: success/failed）
	DistributedLockDuration *prometheus.HistogramVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ReservationTransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservation_transitions_total",
				Help: "Total number of reservation state transition attempts",
			},
			[]string{"transition", "result"},
		),
		ExpiryChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "expiry_checks_total",
				Help: "Total number of hold expiry checks by outcome",
			},
			[]string{"outcome"},
		),
		CompletionSweepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "completion_sweeps_total",
				Help: "Total number of completion sweep runs",
			},
			[]string{"result"},
		),
		CompletedReservationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "completed_reservations_total",
				Help: "Total number of reservations moved to COMPLETE",
			},
		),
		ScheduledTasksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scheduled_tasks_total",
				Help: "Total number of deferred task events",
			},
			[]string{"result"},
		),
		DistributedLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "distributed_lock_duration_seconds",
				Help:    "Time spent on distributed lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ReservationTransitionsTotal,
		m.ExpiryChecksTotal,
		m.CompletionSweepsTotal,
		m.CompletedReservationsTotal,
		m.ScheduledTasksTotal,
		m.DistributedLockDuration,
	)

	return m
}

var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
// Init 前は nil
func Get() *Metrics {
	return defaultMetrics
}

// RecordTransition は予約遷移の結果を記録する（Init 前は何もしない）
func RecordTransition(transition, result string) {
	if m := defaultMetrics; m != nil {
		m.ReservationTransitionsTotal.WithLabelValues(transition, result).Inc()
	}
}

// RecordExpiryCheck は期限切れチェックの結果を記録する
func RecordExpiryCheck(outcome string) {
	if m := defaultMetrics; m != nil {
		m.ExpiryChecksTotal.WithLabelValues(outcome).Inc()
	}
}

// RecordCompletionSweep はスイープ結果と完了件数を記録する
func RecordCompletionSweep(result string, completed int64) {
	if m := defaultMetrics; m != nil {
		m.CompletionSweepsTotal.WithLabelValues(result).Inc()
		if completed > 0 {
			m.CompletedReservationsTotal.Add(float64(completed))
		}
	}
}

// RecordTask は遅延タスクのイベントを記録する
func RecordTask(result string) {
	if m := defaultMetrics; m != nil {
		m.ScheduledTasksTotal.WithLabelValues(result).Inc()
	}
}

// ObserveLock は分散ロック操作の所要時間を記録する
func ObserveLock(operation, status string, seconds float64) {
	if m := defaultMetrics; m != nil {
		m.DistributedLockDuration.WithLabelValues(operation, status).Observe(seconds)
	}
}
