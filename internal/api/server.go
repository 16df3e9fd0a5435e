package api

import (
	"fmt"
	"net/http"

	"tourops/internal/cache"
	"tourops/internal/config"
	"tourops/internal/database"
	"tourops/internal/handlers"
	"tourops/internal/logger"
	"tourops/internal/messaging"
	"tourops/internal/middleware"
	"tourops/internal/repository"
	"tourops/internal/search"
	"tourops/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP API server with all its backing clients.
type Server struct {
	router       *gin.Engine
	config       *config.Config
	db           *database.DB
	nats         *messaging.NATSClient
	valkeyClient *cache.ValkeyClient
	services     *service.Services
	repos        *repository.Repositories
}

// NewServer wires the full dependency graph. Postgres and NATS are
// required; Valkey and Elasticsearch are optional accelerators and the
// server starts without them.
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", "error", err)
	}

	valkeyClient, err := cache.NewValkeyClient()
	if err != nil {
		logger.Get().Warn("Valkey unavailable, caching disabled", "error", err)
		valkeyClient = nil
	}

	searchClient, err := search.NewDepartureSearchClient(config.LoadElasticsearchConfig())
	if err != nil {
		logger.Get().Warn("Elasticsearch unavailable, search falls back to SQL", "error", err)
		searchClient = nil
	}

	repos := repository.NewRepositories(db)

	services := service.NewServices(repos, natsClient, searchClient, service.Options{
		RevalidateOnUpdate: cfg.RevalidateOnUpdate,
		BulkStrictCapacity: cfg.BulkStrictCapacity,
	})

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	server := &Server{
		router:       router,
		config:       cfg,
		db:           db,
		nats:         natsClient,
		valkeyClient: valkeyClient,
		services:     services,
		repos:        repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services, s.valkeyClient)

	api := s.router.Group("/api")
	api.Use(middleware.BasicAuth(s.repos.Users, s.valkeyClient))
	{
		api.GET("/departures", h.ListDepartures)

		assignments := api.Group("/assignments")
		{
			assignments.POST("", h.CreateAssignment)
			assignments.GET("", h.ListAssignments)
			assignments.GET("/availability", h.CheckStaffAvailability)
			assignments.GET("/:id", h.GetAssignment)
			assignments.PUT("/:id", h.UpdateAssignment)
			assignments.PATCH("/:id/confirm", h.ConfirmAssignment)
			assignments.DELETE("/:id", h.DeleteAssignment)
		}

		api.GET("/staff/:id/schedule", h.GetStaffSchedule)

		transports := api.Group("/transports")
		{
			transports.GET("/:id/availability", h.GetTransportAvailability)
			transports.GET("/:id/seats", h.ListUsedSeats)
			transports.POST("/:id/recompute", h.RecomputeTransport)
		}

		seatAssignments := api.Group("/seat-assignments")
		{
			seatAssignments.POST("", h.CreateSeatAssignment)
			seatAssignments.POST("/bulk", h.BulkCreateSeatAssignments)
			seatAssignments.GET("/:id", h.GetSeatAssignment)
			seatAssignments.PUT("/:id", h.UpdateSeatAssignment)
			seatAssignments.DELETE("/:id", h.DeleteSeatAssignment)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	health := s.db.HealthCheck(c.Request.Context())
	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":  health.Status,
		"service": "tourops-api",
		"db":      health,
	})
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter exposes the router for tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes the backing connections.
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if s.valkeyClient != nil {
		if err := s.valkeyClient.Close(); err != nil {
			logger.Get().Error("Error closing Valkey connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Get().Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
