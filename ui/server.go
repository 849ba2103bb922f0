package ui

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sickstat/app"
	"sickstat/internal"
	"sickstat/internal/config"
	"sickstat/internal/errors"
)

// Server is the JSON API over the analysis service
type Server struct {
	router  *gin.Engine
	service *app.AnalysisService
	config  *config.Config
	metrics *Metrics
	logger  *internal.Logger
}

// NewServer creates the API server and registers its routes
func NewServer(service *app.AnalysisService, cfg *config.Config, logger *internal.Logger) *Server {
	gin.SetMode(cfg.Server.GinMode)

	s := &Server{
		router:  gin.New(),
		service: service,
		config:  cfg,
		logger:  logger,
	}
	if cfg.Metrics.Enabled {
		s.metrics = NewMetrics()
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api/v1")
	api.POST("/datasets/inspect", s.handleInspect)
	api.POST("/analyses", s.handleAnalyze)

	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
}

// Handler exposes the router for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting sickstat API on http://%s", addr)
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleInspect parses an upload and returns its record count and slider domains
func (s *Server) handleInspect(c *gin.Context) {
	raw, name, err := readUpload(c.Writer, c.Request, s.config.Server.MaxUploadBytes)
	if err != nil {
		s.writeError(c, err)
		return
	}

	dataset, err := s.service.Load(raw, name)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, s.service.Describe(dataset))
}

// handleAnalyze runs both comparisons over an uploaded file
func (s *Server) handleAnalyze(c *gin.Context) {
	start := time.Now()

	raw, name, err := readUpload(c.Writer, c.Request, s.config.Server.MaxUploadBytes)
	if err != nil {
		s.failAnalysis(c, err)
		return
	}
	if s.metrics != nil {
		s.metrics.UploadBytes.Observe(float64(len(raw)))
	}

	params, err := parseAnalysisParams(c.PostForm)
	if err != nil {
		s.failAnalysis(c, err)
		return
	}

	dataset, err := s.service.Load(raw, name)
	if err != nil {
		s.failAnalysis(c, err)
		return
	}

	report, err := s.service.Analyze(dataset, params)
	if err != nil {
		s.failAnalysis(c, err)
		return
	}

	if s.metrics != nil {
		s.metrics.AnalysesTotal.WithLabelValues("ok").Inc()
		s.metrics.AnalysisDurationSeconds.Observe(time.Since(start).Seconds())
		s.metrics.ObserveReport(report)
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) failAnalysis(c *gin.Context, err error) {
	if s.metrics != nil {
		s.metrics.AnalysesTotal.WithLabelValues("error").Inc()
	}
	s.writeError(c, err)
}

func (s *Server) writeError(c *gin.Context, err error) {
	appErr := errors.FromDomain(err)
	status := errors.HTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("[API] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		s.logger.Debug("[API] %s %s rejected: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error":      appErr.Message,
		"code":       appErr.Code,
		"details":    appErr.Error(),
		"request_id": c.GetString(requestIDKey),
	})
}
