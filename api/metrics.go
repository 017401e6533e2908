package api

import (
	"time"

	log "github.com/sirupsen/logrus"
)

type summaryRequestMetrics struct {
	logger           *log.Logger
	start            time.Time
	stateDuration    time.Duration
	classifyDuration time.Duration
	encodeDuration   time.Duration
	tasksTotal       int
	overdue          int
	errorStage       string
}

func newSummaryRequestMetrics(logger *log.Logger) *summaryRequestMetrics {
	return &summaryRequestMetrics{
		logger: logger,
		start:  time.Now(),
	}
}

func (m *summaryRequestMetrics) ObserveState(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.stateDuration = duration
}

func (m *summaryRequestMetrics) ObserveClassify(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.classifyDuration = duration
}

func (m *summaryRequestMetrics) ObserveEncode(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.encodeDuration = duration
}

func (m *summaryRequestMetrics) SetTaskCounts(total, overdue int) {
	if total < 0 {
		total = 0
	}
	if overdue < 0 {
		overdue = 0
	}
	m.tasksTotal = total
	m.overdue = overdue
}

func (m *summaryRequestMetrics) SetErrorStage(stage string) {
	if stage == "" {
		return
	}
	m.errorStage = stage
}

func (m *summaryRequestMetrics) Log(status int, err error) {
	if m == nil || m.logger == nil {
		return
	}

	fields := log.Fields{
		"route":       "/api/tasks/summary",
		"status":      status,
		"total_ms":    durationToMillis(time.Since(m.start)),
		"tasks_total": m.tasksTotal,
		"overdue":     m.overdue,
	}

	if m.stateDuration > 0 {
		fields["state_ms"] = durationToMillis(m.stateDuration)
	}
	if m.classifyDuration > 0 {
		fields["classify_ms"] = durationToMillis(m.classifyDuration)
	}
	if m.encodeDuration > 0 {
		fields["encode_ms"] = durationToMillis(m.encodeDuration)
	}
	if m.errorStage != "" {
		fields["error_stage"] = m.errorStage
	}
	if err != nil {
		fields["error"] = err.Error()
	}

	m.logger.WithFields(fields).Info("summary.request.metrics")
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
