// Package metrics は Prometheus のメトリクスをまとめます
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// トレイル取得の結果ラベル
const (
	TrailExisting         = "existing"
	TrailGenerated        = "generated"
	TrailGenerationFailed = "generation_failed"
)

// 音声URL取得の結果ラベル
const (
	AudioCached      = "cached"
	AudioSynthesized = "synthesized"
	AudioFailed      = "failed"
)

// Metrics は nil でも安全に呼び出せます (テストでは nil を渡す)
type Metrics struct {
	registry prometheus.Gatherer

	TrailRequests      *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
	AudioRequests      *prometheus.CounterVec
	Completions        *prometheus.CounterVec
	LevelUps           prometheus.Counter
	ExternalCalls      *prometheus.CounterVec

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New は専用のレジストリにメトリクスを登録します
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		TrailRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "story_trail_requests_total",
			Help: "Next-trail requests by how the trail was obtained",
		}, []string{"result"}),
		GenerationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "story_generation_duration_seconds",
			Help:    "Duration of story generation calls",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
		}),
		AudioRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "segment_audio_requests_total",
			Help: "Segment audio requests by cache outcome",
		}, []string{"result"}),
		Completions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "story_trail_completions_total",
			Help: "Trail completion calls split by first-time or repeat",
		}, []string{"first_time"}),
		LevelUps: f.NewCounter(prometheus.CounterOpts{
			Name: "user_level_ups_total",
			Help: "Number of level-ups granted",
		}),
		ExternalCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "external_calls_total",
			Help: "Calls to external services by target and outcome",
		}, []string{"target", "outcome"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route pattern and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Handler は /metrics 用のハンドラ
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) TrailServed(result string) {
	if m == nil {
		return
	}
	m.TrailRequests.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveGeneration(seconds float64) {
	if m == nil {
		return
	}
	m.GenerationDuration.Observe(seconds)
}

func (m *Metrics) AudioServed(result string) {
	if m == nil {
		return
	}
	m.AudioRequests.WithLabelValues(result).Inc()
}

func (m *Metrics) CompletionRecorded(firstTime bool) {
	if m == nil {
		return
	}
	label := "false"
	if firstTime {
		label = "true"
	}
	m.Completions.WithLabelValues(label).Inc()
}

func (m *Metrics) LevelUp() {
	if m == nil {
		return
	}
	m.LevelUps.Inc()
}

// ExternalCall は外部サービス呼び出しの結果を数えます (target: gemini_story, gemini_tts, blob_store など)
func (m *Metrics) ExternalCall(target string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ExternalCalls.WithLabelValues(target, outcome).Inc()
}
