package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes.
const (
	OutcomeSent          = "sent"
	OutcomeInvalid       = "invalid"
	OutcomeParseError    = "parse_error"
	OutcomeDispatchError = "dispatch_error"
	OutcomeError         = "error"
)

// Attachment outcomes.
const (
	AttachmentAttached    = "attached"
	AttachmentDroppedType = "dropped_type"
	AttachmentDroppedSize = "dropped_size"
)

type Metrics struct {
	Submissions  *prometheus.CounterVec
	Attachments  *prometheus.CounterVec
	SendDuration prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contact",
			Name:      "submissions_total",
			Help:      "Contact form submissions by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		Attachments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contact",
			Name:      "attachments_total",
			Help:      "Uploaded files by attachment outcome.",
		}, []string{"outcome"}),
		SendDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "contact",
			Name:      "send_duration_seconds",
			Help:      "Time spent handing a message to the SMTP server.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
	reg.MustRegister(m.Submissions, m.Attachments, m.SendDuration)
	return m
}

func (m *Metrics) ObserveSubmission(endpoint, outcome string) {
	m.Submissions.WithLabelValues(endpoint, outcome).Inc()
}

func (m *Metrics) ObserveAttachment(outcome string) {
	m.Attachments.WithLabelValues(outcome).Inc()
}
