// Package web exposes the JSON API consumed by the frontend.
package web

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/example/jetsetgo/internal/amadeus"
	"github.com/example/jetsetgo/internal/auth"
	"github.com/example/jetsetgo/internal/booking"
	"github.com/example/jetsetgo/internal/hotels"
	"github.com/example/jetsetgo/internal/mailer"
	"github.com/example/jetsetgo/internal/searchcache"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jetsetgo_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jetsetgo_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "endpoint"})
)

type Server struct {
	Amadeus *amadeus.Client
	Hotels  *hotels.Service
	Booking *booking.Service
	Auth    *auth.Store
	Mailer  *mailer.Client
	Cache   *searchcache.Cache

	CORSOrigin string

	started time.Time
}

func (s *Server) Routes() http.Handler {
	s.started = time.Now()

	r := mux.NewRouter()
	r.Use(logging, metrics)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api.HandleFunc("/flights/search", s.handleFlightSearch).Methods(http.MethodPost)
	api.HandleFunc("/flights/price", s.handleFlightPrice).Methods(http.MethodPost)
	api.HandleFunc("/flights/order", s.handleFlightOrderCreate).Methods(http.MethodPost)
	api.HandleFunc("/flights/order/{orderId}", s.handleFlightOrderGet).Methods(http.MethodGet)
	api.HandleFunc("/flights/health", s.handleFlightHealth).Methods(http.MethodGet)
	api.HandleFunc("/flights/airports", s.handleAirports).Methods(http.MethodGet)
	api.HandleFunc("/flights/airlines", s.handleAirlines).Methods(http.MethodGet)

	api.HandleFunc("/hotels/search", s.handleHotelSearch).Methods(http.MethodPost)
	api.HandleFunc("/hotels/{hotelId}/offers", s.handleHotelOffers).Methods(http.MethodGet)

	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	if s.Auth != nil {
		api.Handle("/me", s.Auth.RequireAuth(http.HandlerFunc(s.handleMe))).Methods(http.MethodGet)
	}

	api.HandleFunc("/send-email", s.handleSendEmail).Methods(http.MethodPost)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{orDefault(s.CORSOrigin, "*")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization", "x-csrf-token"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func Start(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Printf("listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tpl
			}
		}
		timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues(r.Method, endpoint))
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sr, r)
		timer.ObserveDuration()
		httpRequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(sr.status)).Inc()
	})
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
