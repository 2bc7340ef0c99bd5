package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"pulsenews/internal/cache"
	"pulsenews/internal/config"
	"pulsenews/internal/feed"
	"pulsenews/internal/ingest"
	"pulsenews/internal/poller"
	"pulsenews/internal/reader"
	"pulsenews/internal/security"
	"pulsenews/internal/storage"
	"pulsenews/internal/web"

	"github.com/gin-gonic/gin"
)

type Server struct {
	router        *gin.Engine
	ingester      *ingest.Pipeline
	reader        *reader.Pipeline
	store         storage.Store
	cacheManager  *cache.Manager
	poller        *poller.Poller
	port          int
	swaggerServer *web.SwaggerServer
	cfg           *config.Config
}

func NewServer(ingester *ingest.Pipeline, rdr *reader.Pipeline, store storage.Store, cacheManager *cache.Manager, pol *poller.Poller, cfg *config.Config) *Server {
	router := gin.Default()

	// Setup security middleware
	securityConfig := &security.SecurityConfig{
		EnableRateLimit:       cfg.Security.EnableRateLimit,
		RateLimitPerSecond:    cfg.Security.RateLimitPerSecond,
		RateLimitBurst:        cfg.Security.RateLimitBurst,
		EnableCORS:            cfg.Security.EnableCORS,
		AllowedOrigins:        cfg.Security.AllowedOrigins,
		EnableSecurityHeaders: cfg.Security.EnableSecurityHeaders,
		MaxRequestSize:        cfg.Security.MaxRequestSize,
		EnableRequestID:       cfg.Security.EnableRequestID,
	}
	security.SetupSecurityMiddleware(router, securityConfig)

	swaggerServer := web.NewSwaggerServer(cfg.EnableSwagger)

	server := &Server{
		router:        router,
		ingester:      ingester,
		reader:        rdr,
		store:         store,
		cacheManager:  cacheManager,
		poller:        pol,
		port:          cfg.Port,
		swaggerServer: swaggerServer,
		cfg:           cfg,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.healthCheck)

	// API routes
	api := s.router.Group("/api")
	{
		api.GET("/storenews", s.storeNews)
		api.GET("/fetchnews", s.fetchNews)
	}

	s.swaggerServer.RegisterRoutes(s.router)
}

func (s *Server) Start() error {
	return s.router.Run(":" + strconv.Itoa(s.port))
}

// StartWithContext serves until the context is cancelled, then drains
// in-flight requests before returning.
func (s *Server) StartWithContext(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(s.port),
		Handler: s.router,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// Router exposes the underlying engine, used by main for graceful shutdown
// and by tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) healthCheck(c *gin.Context) {
	count, err := s.store.Count()
	if err != nil {
		log.Printf("Health check: failed to count rows: %v", err)
		count = -1
	}

	pollerActive := false
	if s.poller != nil {
		pollerActive = s.poller.IsPolling()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"service":       "pulsenews",
		"stored_items":  count,
		"poller_active": pollerActive,
	})
}

// storeNews triggers one ingest run: fetch the feed, deduplicate against
// the store and insert whatever is new.
func (s *Server) storeNews(c *gin.Context) {
	result, err := s.ingester.Run(c.Request.Context())
	if err != nil {
		var upstream *feed.UpstreamError
		if errors.As(err, &upstream) {
			log.Printf("Feed fetch failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Failed to fetch feed (" + upstream.Error() + ")",
			})
			return
		}

		var storeWrite *ingest.StoreWriteError
		if errors.As(err, &storeWrite) {
			log.Printf("Store write failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":  "Failed to insert into DB",
				"detail": storeWrite.Err.Error(),
			})
			return
		}

		log.Printf("Ingest failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if result.InsertedCount > 0 {
		// New rows make any cached day view stale
		s.cacheManager.Flush()
	}

	c.JSON(http.StatusOK, result)
}

// fetchNews serves the items published today in the target timezone,
// falling back to yesterday when today is still empty.
func (s *Server) fetchNews(c *gin.Context) {
	limit, ok := parseNonNegative(c, "limit", 0)
	if !ok {
		return
	}
	offset, ok := parseNonNegative(c, "offset", 0)
	if !ok {
		return
	}

	cacheKey := cache.NewsKey(limit, offset)
	if resp, found := s.cacheManager.GetNews(cacheKey); found {
		c.JSON(http.StatusOK, resp)
		return
	}

	resp, err := s.reader.Run(limit, offset)
	if err != nil {
		log.Printf("Read pipeline failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read from DB"})
		return
	}

	s.cacheManager.SetNews(cacheKey, resp, s.cfg.CacheTTL)
	c.JSON(http.StatusOK, resp)
}

// parseNonNegative reads an optional non-negative integer query parameter.
// On bad input it writes a 400 and reports !ok.
func parseNonNegative(c *gin.Context, name string, defaultVal int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return defaultVal, true
	}

	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name + " parameter: must be a non-negative integer",
		})
		return 0, false
	}

	return val, true
}
