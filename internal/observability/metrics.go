package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	RecognitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rulematch_recognitions_total",
		Help: "Total number of candidate strings checked, by outcome.",
	}, []string{"result"})

	RecognitionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rulematch_recognition_seconds",
		Help:    "Time spent filling one recognition table.",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
	})

	GrammarRules = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rulematch_grammar_rules",
		Help: "Number of nonterminals in the most recent grammar, by stage.",
	}, []string{"stage"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rulematch_stage_seconds",
		Help:    "Time spent on pipeline stages.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
)

const (
	ResultMatch   = "match"
	ResultNoMatch = "no_match"
)
