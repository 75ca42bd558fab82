package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the curation pipeline. Tracks volume
// through the pipeline stages plus rejection counts callers alert on.
type Metrics struct {
	RecordsSubmitted  prometheus.Counter
	ExpertValidations prometheus.Counter
	ReviewsSubmitted  prometheus.Counter
	DuplicateReviews  prometheus.Counter
	GateRejections    prometheus.Counter
	NotifyFailures    prometheus.Counter
	Decisions         *prometheus.CounterVec
	DecisionDuration  prometheus.Histogram
}

// New creates a Metrics instance with all pipeline metrics registered.
func New() *Metrics {
	return &Metrics{
		RecordsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tapestry_curation_records_submitted_total",
			Help: "Total curation requests submitted",
		}),
		ExpertValidations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tapestry_curation_expert_validations_total",
			Help: "Total expert consultations recorded",
		}),
		ReviewsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tapestry_curation_reviews_submitted_total",
			Help: "Total community reviews accepted",
		}),
		DuplicateReviews: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tapestry_curation_duplicate_reviews_total",
			Help: "Community reviews rejected as duplicates",
		}),
		GateRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tapestry_curation_gate_rejections_total",
			Help: "Publication approvals rejected by the sensitivity gate",
		}),
		NotifyFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tapestry_curation_notify_failures_total",
			Help: "Validator-directory broadcasts that failed to deliver",
		}),
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tapestry_curation_decisions_total",
			Help: "Publication decisions by outcome",
		}, []string{"decision"}),
		DecisionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tapestry_curation_decision_duration_seconds",
			Help:    "Duration of MakePublicationDecision operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// All increment helpers are nil-safe so services can run without metrics
// wired (unit tests, embedded use).

func (m *Metrics) IncrementRecordsSubmitted() {
	if m != nil {
		m.RecordsSubmitted.Inc()
	}
}

func (m *Metrics) IncrementExpertValidations() {
	if m != nil {
		m.ExpertValidations.Inc()
	}
}

func (m *Metrics) IncrementReviewsSubmitted() {
	if m != nil {
		m.ReviewsSubmitted.Inc()
	}
}

func (m *Metrics) IncrementDuplicateReviews() {
	if m != nil {
		m.DuplicateReviews.Inc()
	}
}

func (m *Metrics) IncrementGateRejections() {
	if m != nil {
		m.GateRejections.Inc()
	}
}

func (m *Metrics) IncrementNotifyFailures() {
	if m != nil {
		m.NotifyFailures.Inc()
	}
}

func (m *Metrics) IncrementDecision(decision string) {
	if m != nil {
		m.Decisions.WithLabelValues(decision).Inc()
	}
}

// ObserveDecision records the duration of a publication decision. Call with
// time.Now() from the start of the operation.
func (m *Metrics) ObserveDecision(start time.Time) {
	if m != nil {
		m.DecisionDuration.Observe(time.Since(start).Seconds())
	}
}
