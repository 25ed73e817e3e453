package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 주소 변경 관련 메트릭
	ChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "macshift_changes_total",
			Help: "Total number of MAC address change attempts",
		},
		[]string{"status"}, // success, failed
	)

	ChangeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "macshift_change_duration_seconds",
			Help:    "Time spent changing a MAC address end to end",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"interface", "status"},
	)

	LinkDownRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "macshift_link_down_retries_total",
			Help: "Total number of link-down retries",
		},
	)

	VerificationMismatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "macshift_verification_mismatches_total",
			Help: "Total number of post-change verification mismatches",
		},
	)

	// 규칙 엔진 관련 메트릭
	RuleMatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "macshift_rule_matches_total",
			Help: "Total number of rule matches against running applications",
		},
		[]string{"app_name"},
	)

	// 감시 모드 관련 메트릭
	WatchCycleCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "macshift_watch_cycles_total",
			Help: "Total number of watch cycles executed",
		},
	)

	WatchCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "macshift_watch_cycle_duration_seconds",
			Help:    "Time spent in each watch cycle",
			Buckets: prometheus.DefBuckets,
		},
	)

	WatchBackoffLevel = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "macshift_watch_backoff_level",
			Help: "Current backoff level (0 = no backoff)",
		},
	)

	// 에러 메트릭
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "macshift_errors_total",
			Help: "Total number of errors encountered",
		},
		[]string{"error_type"}, // validation, permission_denied, system, ...
	)

	// 시스템 정보
	AgentInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "macshift_agent_info",
			Help: "Agent information",
		},
		[]string{"version", "os", "hostname"},
	)
)

// RecordChange는 주소 변경 결과를 기록합니다
func RecordChange(ifaceName, status string, duration float64) {
	ChangesTotal.WithLabelValues(status).Inc()
	ChangeDuration.WithLabelValues(ifaceName, status).Observe(duration)
}

// RecordLinkDownRetry는 링크 다운 재시도를 기록합니다
func RecordLinkDownRetry() {
	LinkDownRetries.Inc()
}

// RecordVerificationMismatch는 변경 후 검증 불일치를 기록합니다
func RecordVerificationMismatch() {
	VerificationMismatches.Inc()
}

// RecordRuleMatch는 규칙 일치를 기록합니다
func RecordRuleMatch(appName string) {
	RuleMatches.WithLabelValues(appName).Inc()
}

// RecordWatchCycle은 감시 사이클 메트릭을 기록합니다
func RecordWatchCycle(duration float64) {
	WatchCycleCount.Inc()
	WatchCycleDuration.Observe(duration)
}

// RecordError는 에러 발생을 기록합니다
func RecordError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}

// SetBackoffLevel은 현재 백오프 레벨을 설정합니다
func SetBackoffLevel(level float64) {
	WatchBackoffLevel.Set(level)
}

// SetAgentInfo는 에이전트 정보를 설정합니다
func SetAgentInfo(version, osName, hostname string) {
	AgentInfo.WithLabelValues(version, osName, hostname).Set(1)
}
