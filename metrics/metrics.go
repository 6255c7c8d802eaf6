// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics defines Prometheus collectors of the corpstat
// server. All methods are nil-safe so components can be used
// without metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry        *prometheus.Registry
	corpora         prometheus.Gauge
	tokensProcessed prometheus.Counter
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates all collectors and registers them in a new registry
// (along with the standard Go and process collectors).
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		corpora: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "corpstat_corpora",
				Help: "Number of processed corpora held in memory.",
			},
		),
		tokensProcessed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "corpstat_tokens_processed_total",
				Help: "Total number of tokens processed.",
			},
		),
		cacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "corpstat_cache_hits_total",
				Help: "Total number of analysis result cache hits.",
			},
		),
		cacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "corpstat_cache_misses_total",
				Help: "Total number of analysis result cache misses.",
			},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corpstat_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "corpstat_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.corpora,
		m.tokensProcessed,
		m.cacheHits,
		m.cacheMisses,
		m.requestsTotal,
		m.requestDuration,
	)
	return m
}

func (m *Metrics) SetCorpora(n int) {
	if m == nil {
		return
	}
	m.corpora.Set(float64(n))
}

func (m *Metrics) CorpusProcessed(numTokens int) {
	if m == nil {
		return
	}
	m.tokensProcessed.Add(float64(numTokens))
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// Handler returns the scrape HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// GinMiddleware records count and latency of handled requests.
// Routes are labeled by their pattern (e.g. /corpora/:corpusId)
// to keep the label cardinality low.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if m == nil {
			ctx.Next()
			return
		}
		t0 := time.Now()
		ctx.Next()
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(
			ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(
			ctx.Request.Method, route).Observe(time.Since(t0).Seconds())
	}
}
