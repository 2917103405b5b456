package stubserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Server is an in-process stand-in for the summarization backend. It
// implements the boundary contract the client consumes so the CLI and the
// end-to-end harness can run without a real deployment. Processing is
// simulated: a pipeline ticker advances episodes through the status
// lifecycle instead of doing any audio work.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	store      *Store
	pipeline   *Pipeline
	catalog    []catalogEntry
}

// Options configures the stub server.
type Options struct {
	Address         string
	DatabasePath    string        // ":memory:" by default
	AdvanceInterval time.Duration // pipeline tick, default 1s
	Verbose         bool

	// SeedUsers are accounts created at startup (email -> password)
	SeedUsers map[string]string
}

// NewServer creates and wires a stub server.
func NewServer(opts Options) (*Server, error) {
	if opts.DatabasePath == "" {
		opts.DatabasePath = ":memory:"
	}
	if opts.AdvanceInterval <= 0 {
		opts.AdvanceInterval = time.Second
	}

	store, err := NewStore(opts.DatabasePath, opts.Verbose)
	if err != nil {
		return nil, err
	}

	if !opts.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	if opts.Verbose {
		engine.Use(gin.Logger())
	}

	server := &Server{
		engine:   engine,
		store:    store,
		catalog:  defaultCatalog(),
		pipeline: NewPipeline(store, opts.AdvanceInterval),
		httpServer: &http.Server{
			Addr:           opts.Address,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
	}
	server.httpServer.Handler = engine

	if err := server.seedUsers(opts.SeedUsers); err != nil {
		return nil, err
	}
	server.registerRoutes()

	return server, nil
}

// Engine returns the gin engine, for httptest-based tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Store returns the backing store, for test setup.
func (s *Server) Store() *Store {
	return s.store
}

// Start begins serving and starts the pipeline ticker. Blocks like
// http.Server.ListenAndServe.
func (s *Server) Start(ctx context.Context) error {
	s.pipeline.Start(ctx)
	return s.httpServer.ListenAndServe()
}

// StartPipeline runs only the processing simulation, for tests that drive
// the engine through httptest instead of a listener.
func (s *Server) StartPipeline(ctx context.Context) {
	s.pipeline.Start(ctx)
}

// Shutdown stops the pipeline and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.pipeline.Stop()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	return s.store.Close()
}

// registerRoutes wires the boundary contract endpoints.
func (s *Server) registerRoutes() {
	s.engine.POST("/auth/login", s.handleLogin)
	s.engine.POST("/auth/signup", s.handleSignup)
	s.engine.POST("/auth/google", s.handleGoogleAuth)
	s.engine.GET("/auth/me", s.requireUser, s.handleMe)

	s.engine.GET("/search", s.handleSearch)
	s.engine.GET("/search/:id", s.handleGetSearchResult)
	s.engine.GET("/public/summary/:slug", s.handlePublicSummary)

	episodes := s.engine.Group("/episodes", s.requireUser)
	{
		episodes.GET("", s.handleListEpisodes)
		episodes.POST("/upload", s.handleUploadEpisode)
		episodes.POST("/url", s.handleCreateFromURL)
		episodes.GET("/:id/status", s.handleEpisodeStatus)
		episodes.GET("/:id", s.handleGetEpisode)
		episodes.POST("/:id/resume", s.handleResumeEpisode)
		episodes.PUT("/:id/speakers", s.handleUpdateSpeakers)
		episodes.POST("/:id/export/pdf", s.handleExportPDF)
		episodes.GET("/:id/public-status", s.handleGetPublicStatus)
		episodes.PUT("/:id/public", s.handleSetPublic)
	}

	subscriptions := s.engine.Group("/subscriptions", s.requireUser)
	{
		subscriptions.GET("", s.handleListSubscriptions)
		subscriptions.POST("", s.handleCreateSubscription)
		subscriptions.GET("/:id", s.handleGetSubscription)
		subscriptions.PUT("/:id", s.handleUpdateSubscription)
		subscriptions.DELETE("/:id", s.handleDeleteSubscription)
		subscriptions.GET("/:id/episodes", s.handleListSubscriptionEpisodes)
		subscriptions.POST("/:id/check", s.handleCheckSubscription)
		subscriptions.POST("/:id/process-batch", s.handleBatchProcess)
		subscriptions.POST("/:id/fetch-more", s.handleFetchMore)
	}
}

// errorJSON renders the backend's error body shape.
func errorJSON(c *gin.Context, status int, detail string) {
	c.JSON(status, gin.H{"detail": detail})
}
