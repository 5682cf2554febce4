package bootstrap

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/tanmayk/meritalloc/docs" // Import generated swagger docs
	appControllers "github.com/tanmayk/meritalloc/internal/app/controllers"
	appRepos "github.com/tanmayk/meritalloc/internal/app/repositories"
	appRoutes "github.com/tanmayk/meritalloc/internal/app/routes"
	appServices "github.com/tanmayk/meritalloc/internal/app/services"
	"github.com/tanmayk/meritalloc/internal/config"
	"github.com/tanmayk/meritalloc/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AllocationService    appServices.AllocationService
	GroupingService      appServices.GroupingService
	AllocationController *appControllers.AllocationController
	GroupingController   *appControllers.GroupingController
	Runs                 *appRepos.RunRepository
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// BuildDependencies initializes the run store, services, and controllers.
func BuildDependencies(cfg *config.Config, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr}

	deps.Runs = appRepos.NewRunRepository(cfg.Allocation.RetainRuns)

	deps.AllocationService = appServices.NewAllocationService(deps.Runs, lgr)
	deps.GroupingService = appServices.NewGroupingService(deps.Runs, lgr)

	deps.AllocationController = appControllers.NewAllocationController(deps.AllocationService, cfg.Allocation.MaxUploadBytes)
	deps.GroupingController = appControllers.NewGroupingController(deps.GroupingService, cfg.Allocation.MaxUploadBytes)

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()
	router.MaxMultipartMemory = cfg.Allocation.MaxUploadBytes

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.AllocationController,
		deps.GroupingController,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
