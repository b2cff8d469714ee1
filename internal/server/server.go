// Package server exposes the query pipeline over HTTP.
package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"newssense/internal/models"
	"newssense/internal/pipeline"
	"newssense/pkg/utils"
)

// Server wraps the pipeline behind a gin router.
type Server struct {
	pipeline *pipeline.Pipeline
	pool     []models.Instrument
	logger   zerolog.Logger
	engine   *gin.Engine
	addr     string
}

// Config holds HTTP server settings.
type Config struct {
	Addr           string
	AllowedOrigins []string
}

type queryRequest struct {
	Query string `json:"query" binding:"required"`
}

// New creates the HTTP server around an existing pipeline.
func New(p *pipeline.Pipeline, pool []models.Instrument, cfg Config, logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		pipeline: p,
		pool:     pool,
		logger:   logger,
		addr:     addr,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.requestLogger())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 || contains(cfg.AllowedOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	engine.Use(cors.New(corsConfig))

	engine.GET("/health", s.handleHealth)

	api := engine.Group("/api/v1")
	{
		api.POST("/query", s.handleQuery)
		api.GET("/instruments", s.handleInstruments)
	}

	s.engine = engine
	return s
}

// Run starts the HTTP server on the configured address and blocks until the
// context is canceled or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info().Str("addr", s.addr).Msg("HTTP server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	payload := gin.H{
		"status":      "ok",
		"instruments": len(s.pool),
		"market":      utils.GetMarketStatus(),
	}
	if utils.IsMarketOpen() {
		payload["market_closes_at"] = utils.GetMarketClose().Format(time.RFC3339)
	} else {
		payload["market_next_open"] = utils.GetNextMarketOpen().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, payload)
}

func (s *Server) handleQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	answer, err := s.pipeline.AnswerQuery(c.Request.Context(), req.Query)
	if err != nil {
		s.logger.Error().Err(err).Str("query", req.Query).Msg("Query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to answer query"})
		return
	}

	c.JSON(http.StatusOK, answer)
}

func (s *Server) handleInstruments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"instruments": s.pool})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
