// Package metrics defines the Prometheus instruments for the analyzer
// service. All metrics register on the default registry and are served
// by the API's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engineop_analyses_started_total",
		Help: "Number of analysis runs started.",
	})

	AnalysesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engineop_analyses_completed_total",
		Help: "Number of analysis runs completed successfully.",
	})

	AnalysesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engineop_analyses_failed_total",
		Help: "Number of analysis runs that failed before producing results.",
	})

	PagesCrawled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engineop_pages_crawled_total",
		Help: "Number of pages fetched across all analysis runs.",
	})

	LLMCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engineop_llm_calls_total",
		Help: "Number of LLM completion requests issued.",
	})

	LLMFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engineop_llm_failures_total",
		Help: "Number of LLM completion requests that failed after retries.",
	})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "engineop_analysis_duration_seconds",
		Help:    "End-to-end duration of analysis runs.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "engineop_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engineop_rate_limited_total",
		Help: "Number of analysis requests rejected by the rate limiter.",
	})
)
