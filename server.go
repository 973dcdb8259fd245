package tripfinder

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/config"
	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/internal"
	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/metrics"
)

// Server exposes a Planner over HTTP
type Server struct {
	cfg     *config.AppConfig
	planner *Planner
	metrics *metrics.Collector
	started time.Time
	server  *http.Server
}

// NewServer wires the HTTP surface. m may be nil when metrics are disabled.
func NewServer(cfg *config.AppConfig, planner *Planner, m *metrics.Collector) *Server {
	return &Server{cfg: cfg, planner: planner, metrics: m, started: time.Now()}
}

// Router returns the chi router with all routes and middleware
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(internal.RequestLogger(s.metrics))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", internal.RequestIDHeader},
		ExposedHeaders: []string{internal.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/stops", s.handleStops)
	r.Get("/api/trips", s.handleTrips)
	r.Post("/api/trips", s.handleTrips)
	if s.cfg.Metrics.Enabled && s.metrics != nil {
		r.Handle(s.cfg.Metrics.Path, s.metrics.Handler())
	}
	return r
}

// Start begins serving in the background
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on %s", addr)
}

// HandleGracefulShutdown blocks until SIGINT or SIGTERM, then drains
// in-flight requests for up to 10 seconds.
func (s *Server) HandleGracefulShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	} else {
		log.Printf("server shut down successfully")
	}
}

// Shutdown stops a started server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
