// Package exporter polls the dashboard frontend and republishes its
// availability in Prometheus exposition format.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/kaddem/internal/middleware"
)

// Probe results used as the result label
const (
	ResultUp   = "up"
	ResultDown = "down"
)

// Config holds the prober settings
type Config struct {
	FrontendURL string
	Interval    time.Duration
	Timeout     time.Duration
	HTTPClient  *http.Client
	Logger      zerolog.Logger
}

// Exporter owns the registry and the frontend prober
type Exporter struct {
	target   string
	interval time.Duration
	http     *http.Client
	logger   zerolog.Logger

	registry *prometheus.Registry
	up       prometheus.Gauge
	probes   *prometheus.CounterVec
}

// New creates an exporter with the Go runtime and process collectors
// registered next to the frontend metrics
func New(cfg Config) (*Exporter, error) {
	u, err := url.Parse(cfg.FrontendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("frontend URL %q must be absolute", cfg.FrontendURL)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 || timeout > cfg.Interval {
			timeout = cfg.Interval
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	e := &Exporter{
		target:   u.String(),
		interval: cfg.Interval,
		http:     httpClient,
		logger:   cfg.Logger.With().Str("target", u.String()).Logger(),
		registry: prometheus.NewRegistry(),
		up: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "frontend_up",
			Help: "Frontend dev server running status (1 = up)",
		}),
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "frontend_probes_total",
			Help: "Frontend probes by result",
		}, []string{"result"}),
	}

	e.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		e.up,
		e.probes,
	)
	// Both series exist from the start so rate() works before the first failure.
	e.probes.WithLabelValues(ResultUp)
	e.probes.WithLabelValues(ResultDown)

	return e, nil
}

// Registry returns the metrics registry
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Probe checks the frontend once and records the outcome. Connection
// errors and non-2xx answers are both reported as down.
func (e *Exporter) Probe(ctx context.Context) bool {
	up := e.check(ctx)
	if up {
		e.up.Set(1)
		e.probes.WithLabelValues(ResultUp).Inc()
	} else {
		e.up.Set(0)
		e.probes.WithLabelValues(ResultDown).Inc()
	}
	return up
}

func (e *Exporter) check(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.target, nil)
	if err != nil {
		e.logger.Error().Err(err).Msg("Failed to build probe request")
		return false
	}

	resp, err := e.http.Do(req)
	if err != nil {
		e.logger.Debug().Err(err).Msg("Frontend probe failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e.logger.Debug().Int("status", resp.StatusCode).Msg("Frontend probe answered non-2xx")
		return false
	}
	return true
}

// RunProber probes immediately and then once per interval until ctx is done
func (e *Exporter) RunProber(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Probe(ctx)
		}
	}
}

// Router serves /metrics from the registry
func (e *Exporter) Router() *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(e.logger))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})))
	return router
}

// Run serves /metrics on addr and runs the prober until ctx is cancelled
func (e *Exporter) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           e.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		e.RunProber(gctx)
		return nil
	})
	g.Go(func() error {
		e.logger.Info().Str("addr", addr).Msg("Metrics server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
