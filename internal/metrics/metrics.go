package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ApplicationsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "bursary_applications_submitted_total", Help: "Total applications submitted"},
	)
	ApplicationsDecided = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "bursary_applications_decided_total", Help: "Total application decisions recorded"},
	)
	ScholarshipsImported = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "bursary_scholarships_imported_total", Help: "Total external scholarships imported"},
	)
	EmailsSent = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "bursary_emails_sent_total", Help: "Total notification emails sent"},
	)
	EmailsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "bursary_emails_failed_total", Help: "Total notification emails that failed to send"},
	)
)

func Register() {
	prometheus.MustRegister(
		ApplicationsSubmitted,
		ApplicationsDecided,
		ScholarshipsImported,
		EmailsSent,
		EmailsFailed,
	)
}
