package metrics

import "github.com/prometheus/client_golang/prometheus"

// Matching Prometheus metrics.
var (
	MatchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docmatch",
			Name:      "match_requests_total",
			Help:      "Total number of match requests by outcome",
		},
		[]string{"outcome"},
	)

	MatchScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docmatch",
			Name:      "match_score",
			Help:      "Combined similarity score of matched documents",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		},
	)

	CorpusDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docmatch",
			Name:      "corpus_documents",
			Help:      "Number of documents in the loaded corpus",
		},
	)
)

func init() {
	prometheus.MustRegister(MatchRequestsTotal, MatchScore, CorpusDocuments)
}

// ObserveMatch records the outcome of one match request
func ObserveMatch(matched bool, score float64) {
	if !matched {
		MatchRequestsTotal.WithLabelValues("unmatched").Inc()
		return
	}
	MatchRequestsTotal.WithLabelValues("matched").Inc()
	MatchScore.Observe(score)
}
