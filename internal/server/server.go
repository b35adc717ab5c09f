package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sea-u/config"
	"sea-u/internal/handler"
	"sea-u/internal/middleware"
	"sea-u/internal/redis"
	"sea-u/internal/services"
	"sea-u/internal/transport/httpdto"
	"sea-u/internal/websocket"
	"sea-u/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
	onShutdown []func()
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	User         *handler.UserHandler
	Conversation *handler.ConversationHandler
	Message      *handler.MessageHandler
	Settings     *handler.SettingsHandler
	WebSocket    *websocket.Handler
}

// Deps are the cross-cutting pieces the route table needs. Limiter may be
// nil, rate limiting is then off. Health reports backend reachability.
type Deps struct {
	Auth    *services.AuthService
	Limiter *redis.RateLimiter
	Health  func(ctx context.Context) error
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.AppPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

// Engine exposes the router, used by tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// OnShutdown registers fn to run after the HTTP server stops.
func (s *Server) OnShutdown(fn func()) {
	s.onShutdown = append(s.onShutdown, fn)
}

func (s *Server) SetupRoutes(handlers *Handlers, deps Deps) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if deps.Health != nil {
			if err := deps.Health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
				return
			}
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	v1 := s.engine.Group("/v1", middleware.AuthMiddleware(deps.Auth))
	{
		v1.GET("/me/profile", handlers.User.Me)
		v1.GET("/users/lookup", middleware.LookupRateLimitMiddleware(deps.Limiter), handlers.User.Lookup)
		v1.GET("/directory", handlers.User.Directory)
		v1.GET("/stickers", handlers.Message.Stickers)
	}

	conversations := v1.Group("/conversations")
	{
		conversations.POST("", handlers.Conversation.Create)
		conversations.GET("", handlers.Conversation.List)
		conversations.GET("/:id/messages", handlers.Message.List)
		conversations.POST("/:id/messages", middleware.MessageRateLimitMiddleware(deps.Limiter), handlers.Message.Send)
	}

	settings := v1.Group("/settings")
	{
		settings.GET("", handlers.Settings.Get)
		settings.PATCH("", handlers.Settings.Update)
		settings.POST("/tour", handlers.Settings.CompleteTour)
		settings.POST("/export", handlers.Settings.Export)
	}

	if handlers.WebSocket != nil {
		ws := v1.Group("/ws", middleware.WebSocketRateLimitMiddleware(deps.Limiter))
		{
			ws.GET("/conversations", handlers.WebSocket.ConversationList)
			ws.GET("/conversations/:id", handlers.WebSocket.Conversation)
		}
	}
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	for _, fn := range s.onShutdown {
		fn()
	}
	if err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
