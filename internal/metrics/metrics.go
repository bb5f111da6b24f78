package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for the endpoint and channel dimensions.
const (
	EndpointSearch  = "search"
	EndpointPredict = "predict"
	EndpointLocate  = "locate"

	ChannelSuggest   = "suggest"
	ChannelRecommend = "recommend"
)

type Metrics struct {
	Requests             *prometheus.CounterVec
	RequestSeconds       *prometheus.HistogramVec
	StaleResponses       *prometheus.CounterVec
	InFlightRequests     prometheus.Gauge
	ValidationRejections prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "pharma_requests_total",
			Help: "Total number of settled requests by endpoint and outcome.",
		}, []string{"endpoint", "status"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pharma_request_duration_seconds",
			Help:    "Duration of requests to the pharmacy backend and location providers.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		StaleResponses: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "pharma_stale_responses_total",
			Help: "Responses discarded because a newer request was issued on the same channel.",
		}, []string{"channel"}),
		InFlightRequests: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "pharma_inflight_requests",
			Help: "Current number of requests awaiting a response.",
		}),
		ValidationRejections: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "pharma_validation_rejections_total",
			Help: "Submissions rejected locally because the form was incomplete.",
		}),
	}
}
