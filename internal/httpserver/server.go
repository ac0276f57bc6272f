// internal/httpserver/server.go
//
// HTTP server wiring for the color quiz backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access logs).
//   - Public endpoints: "/", "/health", POST /score.
//   - Game endpoints: POST /game/new, GET /game/state, POST /game/question,
//     POST /game/guess, POST /game/hint.
//   - Daily endpoints: mounted under /daily.
//   - Debug endpoint: GET /debug/stats behind bcrypt basic auth.
//   - Background sweeper that purges idle sessions.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so the session cookie works).
//   - Every error body has the shape {"error":"code"}.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/colorquiz/internal/game"
	"github.com/robalobadob/colorquiz/internal/store"
)

const devSecret = "dev_secret_change_me"

// Options configures a Server.
type Options struct {
	Store             store.Store
	Generator         *game.Generator
	GeneratorOptions  []game.GeneratorOption // applied to per-question daily generators
	ClientOrigin      string
	RequestTimeout    time.Duration
	JWTSecret         string
	SecureCookies     bool
	DebugPasswordHash string // bcrypt; empty disables /debug
	DailySalt         string
	SessionTTL        time.Duration
	Logger            zerolog.Logger
}

// Server bundles router, session store and question generator.
type Server struct {
	r     *chi.Mux
	store store.Store
	gen   *game.Generator
	opts  Options
	log   zerolog.Logger
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("httpserver: store is required")
	}
	if opts.Generator == nil {
		return nil, errors.New("httpserver: generator is required")
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	if opts.JWTSecret == "" {
		opts.Logger.Warn().Msg("JWT_SECRET not set; using the development secret")
		opts.JWTSecret = devSecret
	}

	s := &Server{r: chi.NewRouter(), store: opts.Store, gen: opts.Generator, opts: opts, log: opts.Logger}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(s.log))
	s.r.Use(requestIDField)
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                    // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))            // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "colorquiz",
			"endpoints": []string{
				"/health", "POST /game/new", "GET /game/state", "POST /game/question",
				"POST /game/guess", "POST /game/hint", "POST /daily/new", "POST /score",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	s.r.Post("/score", s.handleScore)
	s.mountGame(s.r)
	s.mountDaily(s.r)
	s.r.With(s.requireDebugAuth).Get("/debug/stats", s.handleStats)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s, nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Start serves HTTP on addr and runs the idle-session sweeper until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string, sweepEvery time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.Sweep(sweepCtx, sweepEvery)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Sweep purges sessions idle longer than the session TTL every interval.
func (s *Server) Sweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweepOnce(ctx, time.Now())
		}
	}
}

func (s *Server) sweepOnce(ctx context.Context, now time.Time) int {
	n, err := s.store.PurgeIdle(ctx, now.Add(-s.opts.SessionTTL))
	if err != nil {
		s.log.Error().Err(err).Msg("purge idle sessions")
		return 0
	}
	if n > 0 {
		s.log.Info().Int("purged", n).Msg("purged idle sessions")
	}
	return n
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestIDField copies chi's request id into the request logger.
func requestIDField(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			l := zerolog.Ctx(r.Context())
			l.UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("req_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// decodeBody reads a small JSON body into v. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// writeGameError maps session and store errors onto HTTP statuses.
func (s *Server) writeGameError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "session_not_found")
	case errors.Is(err, game.ErrUnknownOption):
		writeError(w, http.StatusBadRequest, "unknown_option")
	case errors.Is(err, game.ErrNoQuestion):
		writeError(w, http.StatusConflict, "no_question")
	case errors.Is(err, game.ErrRoundResolved):
		writeError(w, http.StatusConflict, "round_resolved")
	case errors.Is(err, game.ErrOptionEliminated):
		writeError(w, http.StatusConflict, "option_eliminated")
	case errors.Is(err, game.ErrHintUsed):
		writeError(w, http.StatusConflict, "hint_used")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("game request failed")
		writeError(w, http.StatusInternalServerError, "internal")
	}
}
