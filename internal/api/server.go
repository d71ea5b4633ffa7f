package api

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spacesedan/reviewsense/internal/artifacts"
	"github.com/spacesedan/reviewsense/internal/models"
	"github.com/spacesedan/reviewsense/internal/processing"
)

const defaultMaxUploadBytes = 10 << 20

// ReviewAnalyzer scores a single review and labels batch rows.
type ReviewAnalyzer interface {
	processing.Labeler
	Analyze(text string) models.SentimentResult
}

type Config struct {
	AllowedOrigins []string
	MaxUploadBytes int64
}

// Server wires the HTTP handlers to the analyzer and the artifact store.
type Server struct {
	analyzer       ReviewAnalyzer
	processor      *processing.Processor
	store          artifacts.Store
	storeHealthy   *atomic.Bool
	allowedOrigins []string
	maxUploadBytes int64
}

func NewServer(cfg Config, analyzer ReviewAnalyzer, store artifacts.Store, storeHealthy *atomic.Bool) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if storeHealthy == nil {
		storeHealthy = &atomic.Bool{}
		storeHealthy.Store(true)
	}

	return &Server{
		analyzer:       analyzer,
		processor:      processing.NewProcessor(analyzer),
		store:          store,
		storeHealthy:   storeHealthy,
		allowedOrigins: cfg.AllowedOrigins,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Logging(), Recovery())

	corsCfg := cors.DefaultConfig()
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-Id"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.ExposeHeaders = []string{"Content-Disposition", "X-Request-Id"}
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api/reviews")
	{
		api.POST("/analyze", s.handleAnalyze)
		api.POST("/batch", s.handleBatch)
		api.GET("/batch/:id/download", s.handleDownload)
	}

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "not_found", "Route not found")
	})

	return r
}
