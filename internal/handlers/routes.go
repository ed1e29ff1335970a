package handlers

import (
	"net/http"
	"time"

	_ "people-api/docs"
	"people-api/internal/middleware"
	"people-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// FunctionPath is where the people function is served on the local server
const FunctionPath = "/api/people"

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	PersonService  services.PersonService
	Logger         *logrus.Logger
	RateLimitRPS   float64
	RateLimitBurst int
	MaxBodyBytes   int64
	SlowThreshold  time.Duration
}

// NewRouter builds a gin engine with middleware and every route
func NewRouter(config *RouterConfig) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())

	SetupMiddleware(router, config)
	SetupRoutes(router, config)

	return router
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	peopleHandler := NewPeopleHandler(config.PersonService, config.Logger)
	peopleFunction := NewPeopleFunction(config.PersonService, config.Logger)
	healthHandler := NewHealthHandler(config.PersonService, Version)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", healthHandler.Health)

	// Entity route table
	people := router.Group("/people", middleware.ContentTypeValidation("application/json"))
	{
		people.GET("", peopleHandler.ListPeople)
		people.POST("", peopleHandler.AddPerson)
	}

	// Function surface; the dispatcher answers unsupported methods and content types itself
	router.Any(FunctionPath, peopleFunction.ServeFunction)

	router.NoMethod(func(c *gin.Context) {
		if c.Request.URL.Path == FunctionPath {
			peopleFunction.ServeFunction(c)
			return
		}
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{
			Error:   "Method not allowed",
			Message: "method " + c.Request.Method + " is not supported on " + c.Request.URL.Path,
		})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "Not found",
			Message: "no route for " + c.Request.URL.Path,
		})
	})
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, config *RouterConfig) {
	maxBody := config.MaxBodyBytes
	if maxBody == 0 {
		maxBody = 1 << 20
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.CORS(FunctionPath))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestSizeLimit(maxBody))
	router.Use(middleware.RateLimiter(config.Logger, config.RateLimitRPS, config.RateLimitBurst))
	router.Use(middleware.StructuredLogger(config.Logger))
	router.Use(middleware.PerformanceMonitor(config.Logger, config.SlowThreshold))
	router.Use(middleware.AuditLogger(config.Logger))
	router.Use(middleware.ErrorTracker(config.Logger))
	router.Use(middleware.ErrorHandler())
}
