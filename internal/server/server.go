// Package server exposes the question engine over HTTP with gin.
//
// Routes:
//
//	POST /query    {"q": "<question>"} → {"data": <raw answer>}
//	GET  /healthz  liveness check
//	GET  /metrics  Prometheus exposition
//
// Errors are JSON objects with a single "message" field.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roach88/nlquery/internal/engine"
	"github.com/roach88/nlquery/internal/ir"
)

// MessageParserUnavailable is returned when the parser service is unreachable.
const MessageParserUnavailable = "Cannot connect to CoreNLP server"

// Asker answers one question. *engine.Engine implements it.
type Asker interface {
	Ask(ctx context.Context, sentence string) (*ir.Answer, error)
}

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Q string `json:"q"`
}

// QueryResponse wraps the raw answer.
type QueryResponse struct {
	Data ir.RawAnswer `json:"data"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Server is the HTTP front end.
type Server struct {
	asker  Asker
	logger *slog.Logger
	router *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// New creates a server answering with asker.
func New(asker Asker, opts ...Option) *Server {
	s := &Server{
		asker:  asker,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.logRequests())
	router.POST("/query", s.handleQuery)
	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router = router

	return s
}

// Handler returns the router for use with net/http or httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Unable to parse JSON."})
		return
	}
	if req.Q == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Missing argument q."})
		return
	}

	ans, err := s.asker.Ask(c.Request.Context(), req.Q)
	if err != nil {
		if engine.IsParserUnavailable(err) {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Message: MessageParserUnavailable})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, QueryResponse{Data: ans.Raw()})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// logRequests logs each request at debug with its latency.
func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.DebugContext(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start))
	}
}
