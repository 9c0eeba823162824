package config

import (
	menuHandler "DriveThruGolang/internal/api/menu/handler"
	menuService "DriveThruGolang/internal/api/menu/service"
	metricsHandler "DriveThruGolang/internal/api/metrics/handler"
	orderService "DriveThruGolang/internal/api/order/service"
	relayHandler "DriveThruGolang/internal/api/relay/handler"
	relayService "DriveThruGolang/internal/api/relay/service"
	"DriveThruGolang/internal/middleware"
	"DriveThruGolang/pkg/agent"
	"DriveThruGolang/pkg/conversation"
	"DriveThruGolang/pkg/latency"
	"DriveThruGolang/pkg/qu"
	"DriveThruGolang/pkg/redis"
	"DriveThruGolang/pkg/s3"
	"DriveThruGolang/pkg/utils"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"os"
)

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	log            *logrus.Logger
	middleware     middleware.Middleware
	validator      *validator.Validate
	utils          utils.IUtils
	handlers       []handler
	redisServer    redis.IRedis
	agentDialer    agent.IDialer
	latencyTracker latency.ITracker
	recorder       conversation.IRecorder
	s3Client       s3.ItfS3
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithAgentDialer(dialer agent.IDialer) ServerOption {
	return func(s *Server) error {
		s.agentDialer = dialer
		return nil
	}
}

func WithLatencyTracker() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before latency tracker")
		}
		s.latencyTracker = latency.New(s.log)
		return nil
	}
}

func WithConversationRecorder() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before conversation recorder")
		}
		s.recorder = conversation.New(s.log)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Qu catalog client shared by the menu and order domains
	quClient := qu.New(s.log, s.redisServer)

	// Menu Domain
	menuServices := menuService.NewMenuService(s.log, quClient, s.latencyTracker)
	menuHandlers := menuHandler.New(s.log, s.validator, s.middleware, menuServices)

	// Order Domain, reached through voice function calls only
	orderServices := orderService.NewOrderService(s.log, quClient, s.utils)

	// Voice Relay
	relayServices := relayService.NewRelayService(s.log, s.validator, s.agentDialer,
		orderServices, menuServices, s.latencyTracker, s.recorder, s.s3Client)
	relayHandlers := relayHandler.New(s.log, relayServices, s.utils)

	// Latency Metrics
	metricsHandlers := metricsHandler.New(s.log, s.middleware, s.latencyTracker)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, menuHandlers, relayHandlers, metricsHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())
	s.engine.Use(s.middleware.NewRateLimiter)

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
