// Package server exposes the retrieval service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"docqa"
	"docqa/internal/config"
	"docqa/internal/domain"
	"docqa/internal/service"
)

// RAGService is the part of the retrieval service the transport drives.
type RAGService interface {
	Ingest(ctx context.Context, text string) (int, error)
	Query(ctx context.Context, question string) (*domain.Answer, error)
	Reset(ctx context.Context)
	Stats() service.Stats
}

type Server struct {
	config  config.ServerConfig
	apiKey  string
	svc     RAGService
	log     logrus.FieldLogger
	router  *gin.Engine
	server  *http.Server
	metrics *Metrics
}

// New builds the router. An empty apiKey leaves the API unauthenticated.
func New(cfg config.ServerConfig, apiKey string, svc RAGService, log logrus.FieldLogger) *Server {
	if cfg.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{
		config: cfg,
		apiKey: apiKey,
		svc:    svc,
		log:    log.WithField("component", "http"),
		router: gin.New(),
	}
	if !cfg.DisableMetrics {
		s.metrics = NewMetrics("docqa")
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(loggingMiddleware(s.log))
	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware())
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	if s.metrics != nil {
		s.router.GET(s.config.MetricsPath, s.metrics.Handler())
	}

	var auth []gin.HandlerFunc
	if s.apiKey != "" {
		auth = append(auth, internalKeyMiddleware(s.config.AuthHeader, s.apiKey))
	} else {
		s.log.Warnf("no key in %s, API is unauthenticated", s.config.APIKeyEnv)
	}

	v1 := s.router.Group("/v1", auth...)
	v1.POST("/documents", s.uploadDocument)
	v1.DELETE("/documents", s.resetIndex)
	v1.POST("/query", s.query)
	v1.GET("/stats", s.stats)

	s.router.Any("/api/pdf", append(auth, s.legacyPDF)...)
}

// Start serves until Stop is called.
func (s *Server) Start() error {
	s.log.WithFields(logrus.Fields{"addr": s.config.Addr, "mode": s.config.Mode}).Info("server starting")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// Router returns the underlying Gin router.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) healthCheck(c *gin.Context) {
	st := s.svc.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"version":   docqa.Version,
		"chunks":    st.Chunks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
