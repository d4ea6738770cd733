// Package server exposes the progress store and the course catalog over a
// JSON HTTP API so several devices can share one profile.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/pennywise/internal/catalog"
	"github.com/abhisek/pennywise/internal/logger"
	"github.com/abhisek/pennywise/internal/progress"
)

const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	Store   progress.Store
	Catalog *catalog.Catalog
	Auth    *Authenticator
	Logger  *logger.Logger

	// AllowOrigins enables CORS for browser clients. Empty disables it.
	AllowOrigins []string
}

// Server is the HTTP API.
type Server struct {
	store   progress.Store
	catalog *catalog.Catalog
	auth    *Authenticator
	log     *logger.Logger
	now     func() time.Time
	origins []string

	engine *gin.Engine
}

// New wires routes and middleware.
func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("server: store is required")
	}
	if opts.Auth == nil {
		return nil, errors.New("server: authenticator is required")
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Builtin()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	s := &Server{
		store:   opts.Store,
		catalog: opts.Catalog,
		auth:    opts.Auth,
		log:     opts.Logger.With("component", "server"),
		now:     time.Now,
		origins: opts.AllowOrigins,
	}
	s.engine = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLogger(s.log))
	if len(s.origins) > 0 {
		r.Use(corsPolicy(s.origins))
	}

	r.GET("/healthz", s.healthCheck)

	api := r.Group("/api")
	{
		api.GET("/courses", s.listCourses)
		api.GET("/lessons/:id", s.getLesson)
	}

	protected := api.Group("/")
	protected.Use(s.auth.RequireAuth())
	{
		protected.GET("/progress", s.getProgress)
		protected.PUT("/progress", s.putProgress)
		protected.DELETE("/progress", s.resetProgress)
		protected.GET("/progress/lessons", s.listLessonProgress)
		protected.POST("/progress/lessons", s.postLessonProgress)
		protected.GET("/courses/:id/path", s.coursePath)
	}
	return r
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
