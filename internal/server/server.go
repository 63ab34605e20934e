package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/techcareer-analyzer/internal/career"
	"github.com/jonathan/techcareer-analyzer/internal/corpus"
	"github.com/jonathan/techcareer-analyzer/internal/db"
	"github.com/jonathan/techcareer-analyzer/internal/extract"
	"github.com/jonathan/techcareer-analyzer/internal/llm"
	"github.com/jonathan/techcareer-analyzer/internal/registry"
	"github.com/jonathan/techcareer-analyzer/internal/salary"
)

// Config holds server configuration
type Config struct {
	Port            int
	DatabaseURL     string
	GeminiAPIKey    string
	GeminiModel     string
	UseLLMExtractor bool
	RefreshInterval time.Duration
	CacheTTL        time.Duration
	Logger          *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	db         *db.DB
	log        *zap.Logger

	reg       *registry.Registry
	holder    *corpus.Holder
	agg       *salary.Aggregator
	extractor extract.Extractor
	cache     *ttlCache
	validate  *validator.Validate

	plannerCfg      career.PlannerConfig
	trajectoryCfg   career.TrajectoryConfig
	refreshInterval time.Duration

	llmClient llm.Client
	cancelBg  context.CancelFunc
}

// New creates a new server instance. The corpus is loaded once before the
// server starts serving; a load failure leaves an empty snapshot and is
// surfaced as a warning, not a startup error.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.InitSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}

	reg := registry.Default()
	s := &Server{
		db:              database,
		log:             cfg.Logger,
		reg:             reg,
		holder:          corpus.NewHolder(reg, database.Loader(time.Time{})),
		agg:             salary.New(salary.Default()),
		cache:           newTTLCache(cfg.CacheTTL),
		validate:        validator.New(),
		plannerCfg:      career.DefaultPlannerConfig(),
		trajectoryCfg:   career.DefaultTrajectoryConfig(),
		refreshInterval: cfg.RefreshInterval,
	}
	s.holder.OnRefresh(s.cache.Flush)

	s.extractor = extract.NewRuleBased(reg)
	if cfg.UseLLMExtractor {
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		s.llmClient = client
		s.extractor = extract.NewLLM(client, reg)
	}

	if err := s.holder.Refresh(ctx); err != nil {
		s.log.Warn("initial corpus load failed, serving empty snapshot", zap.Error(err))
	} else {
		ix := s.holder.Snapshot()
		s.log.Info("corpus loaded",
			zap.Int("postings", ix.PostingCount),
			zap.Int("roles", len(ix.RoleProfiles())))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Trends endpoints
	mux.HandleFunc("GET /api/trends/skills", s.handleTrendingSkills)
	mux.HandleFunc("GET /api/trends/forecast/{months}", s.handleForecast)
	mux.HandleFunc("GET /api/trends/salary/{role}", s.handleSalaryTrends)

	// Career endpoints
	mux.HandleFunc("POST /api/career/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/career/roles/{role}", s.handleRoleRequirements)

	// Skills endpoints
	mux.HandleFunc("POST /api/skills/extract", s.handleExtractSkills)

	// Salary endpoints
	mux.HandleFunc("POST /api/salary/predict", s.handlePredictSalary)
	mux.HandleFunc("GET /api/salary/range/{role}", s.handleSalaryRange)

	// Admin endpoints
	mux.HandleFunc("POST /api/admin/refresh", s.handleRefresh)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	bgCtx, cancel := context.WithCancel(context.Background())
	s.cancelBg = cancel
	if s.refreshInterval > 0 {
		go s.holder.RunPeriodicRefresh(bgCtx, s.refreshInterval, func(err error) {
			s.log.Warn("corpus refresh failed", zap.Error(err))
		})
	}

	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.log.Info("shutting down server")

	ctx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.cancelBg()
	if s.llmClient != nil {
		_ = s.llmClient.Close()
	}
	s.db.Close()
	s.log.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds per-request structured logging with a request ID.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r)

		s.log.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	ix := s.holder.Snapshot()
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"postings": ix.PostingCount,
		"built_at": ix.BuiltAt.UTC().Format(time.RFC3339),
	})
}

// handleRefresh reloads the corpus from storage and swaps the snapshot.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.holder.Refresh(r.Context()); err != nil {
		s.log.Error("manual refresh failed", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "corpus refresh failed")
		return
	}
	ix := s.holder.Snapshot()
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "refreshed",
		"postings": ix.PostingCount,
		"roles":    len(ix.RoleProfiles()),
		"built_at": ix.BuiltAt.UTC().Format(time.RFC3339),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handlerError maps a typed error onto the right status code and body.
func (s *Server) handlerError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.log.Error("handler error", zap.Error(err))
		s.errorResponse(w, status, "internal error")
		return
	}
	s.errorResponse(w, status, err.Error())
}
