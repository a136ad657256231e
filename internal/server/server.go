package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/grade-calculator/internal/config"
	"github.com/jonathan/grade-calculator/internal/db"
	"github.com/jonathan/grade-calculator/internal/editor"
	"github.com/jonathan/grade-calculator/internal/server/middleware"
	"github.com/jonathan/grade-calculator/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	cfg         *config.Config
	httpServer  *http.Server
	rateLimiter *ratelimit.Limiter
	sessions    *editor.Store
	validator   *validator.Validate

	// Account and grade features; nil when no database is configured.
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	grades      *GradeService
	closeDB     func()
}

// Deps are the collaborators a Server is built from. Users, Grades and the
// credential configs are optional as a group: without them only the calculators run.
type Deps struct {
	Users     DBClient
	Grades    GradeStore
	Password  *config.PasswordConfig
	JWT       *config.JWTConfig
	RateLimit *ratelimit.Config
	CloseDB   func()
}

// New creates a server from application config, connecting to the database when
// one is configured.
func New(cfg *config.Config) (*Server, error) {
	deps := Deps{RateLimit: ratelimit.LoadConfig()}

	if cfg.DatabaseURL == "" {
		log.Printf("[server] no database configured; accounts and saved grades are disabled")
		return NewWithDeps(cfg, deps)
	}

	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	deps.Users = database
	deps.Grades = database
	deps.Password = passwordConfig
	deps.JWT = jwtConfig
	deps.CloseDB = database.Close
	return NewWithDeps(cfg, deps)
}

// NewWithDeps creates a server around explicit collaborators.
func NewWithDeps(cfg *config.Config, deps Deps) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:         cfg,
		rateLimiter: ratelimit.NewLimiter(deps.RateLimit),
		sessions:    editor.NewStore(cfg.SessionTTL),
		validator:   validator.New(),
		closeDB:     deps.CloseDB,
	}

	if deps.Users != nil {
		if deps.Password == nil || deps.JWT == nil {
			return nil, fmt.Errorf("password and JWT config are required with a user store")
		}
		s.jwtService = NewJWTService(deps.JWT)
		s.userService = NewUserService(deps.Users, deps.Password)
		s.authHandler = NewAuthHandler(s.userService, s.jwtService)
	}
	if deps.Grades != nil {
		s.grades = NewGradeService(deps.Grades, cfg.Semester)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler builds the routed handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Calculators
	mux.HandleFunc("POST /calculate", s.handleCalculate)
	mux.HandleFunc("GET /subjects", s.handleListSubjects)
	mux.HandleFunc("GET /subjects/{slug}", s.handleGetSubject)
	mux.Handle("POST /subjects/{slug}/calculate", s.optional(s.handleCalculateSubject))
	mux.HandleFunc("POST /gpa", s.handleGPA)
	mux.HandleFunc("POST /attendance", s.handleAttendance)
	mux.HandleFunc("POST /budget", s.handleBudget)

	// Editor sessions
	mux.HandleFunc("POST /editor", s.handleCreateSession)
	mux.HandleFunc("GET /editor/{id}", s.handleGetSession)
	mux.HandleFunc("PATCH /editor/{id}", s.handleUpdateSession)
	mux.HandleFunc("DELETE /editor/{id}", s.handleDeleteSession)
	mux.HandleFunc("POST /editor/{id}/categories", s.handleAddCategory)
	mux.HandleFunc("PATCH /editor/{id}/categories/{cid}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /editor/{id}/categories/{cid}", s.handleRemoveCategory)
	mux.HandleFunc("POST /editor/{id}/categories/{cid}/items", s.handleAddItem)
	mux.HandleFunc("PATCH /editor/{id}/categories/{cid}/items/{iid}", s.handleUpdateItem)
	mux.HandleFunc("DELETE /editor/{id}/categories/{cid}/items/{iid}", s.handleRemoveItem)

	// Accounts
	mux.Handle("POST /auth/register", s.accounts(func(w http.ResponseWriter, r *http.Request) {
		s.authHandler.Register(w, r)
	}))
	mux.Handle("POST /auth/login", s.accounts(func(w http.ResponseWriter, r *http.Request) {
		s.authHandler.Login(w, r)
	}))
	mux.Handle("PUT /auth/password", s.protected(func(w http.ResponseWriter, r *http.Request) {
		s.authHandler.UpdatePassword(w, r)
	}))
	mux.Handle("GET /users/me", s.protected(func(w http.ResponseWriter, r *http.Request) {
		s.authHandler.Me(w, r)
	}))
	mux.Handle("DELETE /users/me", s.protected(func(w http.ResponseWriter, r *http.Request) {
		s.authHandler.DeleteAccount(w, r)
	}))

	// Saved grades
	mux.Handle("GET /grades", s.protectedGrades(s.handleListGrades))
	mux.Handle("GET /grades/summary", s.protectedGrades(s.handleGradeSummary))
	mux.Handle("PUT /grades/{subject}", s.protectedGrades(s.handleSaveGrade))
	mux.Handle("DELETE /grades/{subject}", s.protectedGrades(s.handleDeleteGrade))
	mux.Handle("GET /leaderboard", s.protectedGrades(s.handleLeaderboard))
	mux.Handle("GET /dashboard", s.protectedGrades(s.handleDashboard))

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// accounts guards routes that need the user store.
func (s *Server) accounts(h http.HandlerFunc) http.Handler {
	if s.authHandler == nil {
		return unavailable("accounts")
	}
	return h
}

// protected requires a valid bearer token.
func (s *Server) protected(h http.HandlerFunc) http.Handler {
	if s.jwtService == nil {
		return unavailable("accounts")
	}
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(h)
}

// protectedGrades requires a valid bearer token and the grade store.
func (s *Server) protectedGrades(h http.HandlerFunc) http.Handler {
	if s.grades == nil {
		return unavailable("saved grades")
	}
	return s.protected(h)
}

// optional attaches the caller's identity when a valid token is sent.
func (s *Server) optional(h http.HandlerFunc) http.Handler {
	if s.jwtService == nil {
		return h
	}
	return middleware.OptionalAuth(s.jwtService.AsTokenValidator())(h)
}

func unavailable(feature string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeServiceError(w, &ErrUnavailable{Feature: feature})
	})
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (semester %q)", s.httpServer.Addr, s.cfg.Semester)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	log.Println("Server stopped")
	return nil
}

// Close stops background loops and releases the database pool.
func (s *Server) Close() {
	s.rateLimiter.Stop()
	s.sessions.Stop()
	if s.closeDB != nil {
		s.closeDB()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.CORSOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"semester": s.cfg.Semester,
		"accounts": s.authHandler != nil,
		"sessions": s.sessions.Len(),
	})
}

// extractClientID uses the remote IP; forwarded headers are not trusted.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		retry := int(info.RetryAfter.Seconds() + 0.999)
		response["retry_after"] = retry
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retry))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	writeJSON(w, http.StatusTooManyRequests, response)
}
