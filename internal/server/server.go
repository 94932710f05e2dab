package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/sibusisodev/statement-processor-service/internal/config"
	"github.com/sibusisodev/statement-processor-service/internal/handler"
	"github.com/sibusisodev/statement-processor-service/internal/middleware"
	"github.com/sibusisodev/statement-processor-service/internal/service"
)

// Server represents the HTTP server for the statement processing service
type Server struct {
	router           *gin.Engine
	httpServer       *http.Server
	statementHandler *handler.StatementHandler
	processor        service.StatementProcessor
	config           *config.Config
	cleanup          []func() error
}

// NewServer creates and configures a new server instance
func NewServer(cfg *config.Config) *Server {
	// Create router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestResponseLogger(middleware.LoggerConfig{
		Format: cfg.LogFormat,
		Level:  cfg.LogLevel,
	}))

	// Create server
	server := &Server{
		router: router,
		config: cfg,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}

	// Configure routes
	server.setupRoutes()

	return server
}

// SetStatementHandler sets the statement handler and registers its routes
func (s *Server) SetStatementHandler(statementHandler *handler.StatementHandler) {
	s.statementHandler = statementHandler
	statementHandler.RegisterRoutes(s.router)
}

// SetProcessor sets the statement processor for shutdown handling
func (s *Server) SetProcessor(processor service.StatementProcessor) {
	s.processor = processor
}

// AddCleanup registers a cleanup function to run on shutdown
func (s *Server) AddCleanup(fn func() error) {
	s.cleanup = append(s.cleanup, fn)
}

// GetRouter returns the gin router instance
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// setupRoutes configures the non-API routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// API documentation endpoints
	// Access the Swagger UI at http://localhost:8080/api-docs/index.html
	swaggerHandler := ginSwagger.WrapHandler(swaggerFiles.Handler)
	s.router.GET("/api-docs/*any", swaggerHandler)

	s.router.GET("/api-docs", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api-docs/index.html")
	})
}

// Start begins listening for requests and handles graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("Server listening on port %d", s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	log.Println("Shutting down server...")

	if err := s.Shutdown(); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exited gracefully")
	return nil
}

// Shutdown gracefully stops the server and releases owned resources
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown the processor before releasing its dependencies
	if s.processor != nil {
		s.processor.Shutdown()
	}

	for _, fn := range s.cleanup {
		if err := fn(); err != nil {
			log.Printf("Cleanup error during shutdown: %v", err)
		}
	}

	// Shutdown server
	return s.httpServer.Shutdown(ctx)
}
