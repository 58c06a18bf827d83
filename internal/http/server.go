// Package http serves the dashboard view models and preference endpoints.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"finboard/internal/cache"
	"finboard/internal/log"
	"finboard/internal/middleware/ratelimit"
	"finboard/internal/middleware/security"
	"finboard/internal/middleware/trace"
)

// Server wraps http.Server with the dashboard's middleware stack and
// background cleanup lifecycle.
type Server struct {
	http.Server

	dash     DashboardController
	prefs    PrefsStore
	invoices InvoiceGenerator
	logger   *log.Logger

	limiter      *ratelimit.Limiter
	detector     *security.Detector
	tracer       *trace.Middleware
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// Options carries the optional collaborators and tuning knobs.
type Options struct {
	Prefs             PrefsStore
	Invoices          InvoiceGenerator
	CacheManager      *cache.Manager
	CleanupInterval   time.Duration
	RequestsPerMinute int
	ReadHeaderTimeout time.Duration
	TrustedProxies    []string
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, dash DashboardController, logger *log.Logger, opts Options) *Server {
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 60
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = 5 * time.Minute
	}
	if opts.ReadHeaderTimeout <= 0 {
		opts.ReadHeaderTimeout = 10 * time.Second
	}

	s := &Server{
		dash:     dash,
		prefs:    opts.Prefs,
		invoices: opts.Invoices,
		logger:   logger.WithComponent(log.ComponentHTTP),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RequestsPerMinute,
			CleanupInterval:   opts.CleanupInterval,
		}),
		detector:     security.NewDetector(),
		cacheManager: opts.CacheManager,
	}

	if s.cacheManager != nil {
		s.cacheManager.StartCleanup(opts.CleanupInterval)
	}

	for _, cidr := range opts.TrustedProxies {
		if err := s.detector.AddTrustedProxy(cidr); err != nil {
			s.logger.Warn("ignoring invalid trusted proxy", log.FieldError, err.Error())
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/api/dashboard", s.handleDashboard)
	mux.HandleFunc("/api/dashboard/reload", s.handleReload)
	mux.HandleFunc("/api/dashboard/drilldown", s.handleDrilldown)
	mux.HandleFunc("/api/dashboard/back", s.handleBack)
	mux.HandleFunc("/api/prefs", s.handlePrefs)
	mux.HandleFunc("/api/invoices", s.handleInvoice)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP)
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimited)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.tracer.Middleware(headers.Middleware(limited(s.flagSuspicious(mux)))),
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
	}
	return s
}

// flagSuspicious logs requests matching known attack patterns. Detection is
// advisory: the request still proceeds, and the count surfaces on /readyz.
func (s *Server) flagSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			s.logger.Warn("suspicious request",
				log.FieldClientIP, s.detector.ExtractClientIP(r),
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.Warn("rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldPath, r.URL.Path)
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
}

// Shutdown stops background cleanup and then drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
