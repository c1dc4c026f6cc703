package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/kaddem/internal/app/controllers"
	"github.com/yigit/kaddem/internal/app/models/dto"
	appRepos "github.com/yigit/kaddem/internal/app/repositories"
	appRoutes "github.com/yigit/kaddem/internal/app/routes"
	appServices "github.com/yigit/kaddem/internal/app/services"
	"github.com/yigit/kaddem/internal/config"
	appMiddleware "github.com/yigit/kaddem/internal/middleware"
	pkgAuth "github.com/yigit/kaddem/internal/pkg/auth"
	"github.com/yigit/kaddem/internal/pkg/logger"
	"github.com/yigit/kaddem/internal/pkg/websocket"
	"github.com/yigit/kaddem/internal/remote"
)

// StatusEvent is the event type pushed on every collection state change
const StatusEvent = "collection.status"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Config               *config.Config
	Logger               zerolog.Logger
	Client               *remote.Client
	Repos                *appRepos.Repositories
	DashboardService     *appServices.DashboardService
	DashboardController  *appControllers.DashboardController
	StudentController    *appControllers.StudentController
	DepartmentController *appControllers.DepartmentController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Hub                  *websocket.Hub
	WebSocketHandler     *websocket.Handler
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath, component string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:     logLevel,
		Pretty:    cfg.PrettyLogs(),
		Component: component,
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// NewBackendClient builds the remote client, signing requests when a
// service token secret is configured
func NewBackendClient(cfg *config.Config, lgr zerolog.Logger) (*remote.Client, error) {
	tokens := pkgAuth.NewTokenSource(pkgAuth.TokenConfig{
		SecretKey:   cfg.Backend.ServiceToken.Secret,
		TTL:         cfg.Backend.ServiceToken.TTL,
		TokenIssuer: cfg.Backend.ServiceToken.Issuer,
	})
	if tokens == nil {
		lgr.Info().Msg("No service token secret configured, backend calls are unauthenticated")
	}

	client, err := remote.NewClient(remote.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		Tokens:  tokens,
		Logger:  lgr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}
	return client, nil
}

// NewDashboardService builds the repositories and the dashboard service on
// top of client
func NewDashboardService(cfg *config.Config, client *remote.Client, lgr zerolog.Logger) (*appRepos.Repositories, *appServices.DashboardService) {
	repos := appRepos.NewRepositories(client, appRepos.WithContextPath(cfg.Backend.ContextPath))
	svc := appServices.NewDashboardService(repos, appServices.DashboardOptions{
		RecentLimit: cfg.Dashboard.RecentLimit,
		EmailDomain: cfg.Dashboard.EmailDomain,
	}, lgr)
	return repos, svc
}

// BuildDependencies initializes the backend client, repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg, Logger: lgr}

	var err error
	deps.Client, err = NewBackendClient(cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize backend client")
		return nil, err
	}
	lgr.Info().Str("baseURL", deps.Client.BaseURL()).Msg("Backend client configured")

	deps.Repos, deps.DashboardService = NewDashboardService(cfg, deps.Client, lgr)

	// The hub is started by the server; events published before that wait
	// in its queue.
	deps.Hub = websocket.NewHub(lgr)
	deps.WebSocketHandler = websocket.NewHandler(deps.Hub, lgr)
	deps.DashboardService.SubscribeStatus(func(st dto.CollectionStatus) {
		deps.Hub.Publish(websocket.Event{Type: StatusEvent, Data: st})
	})

	if cfg.Dashboard.LoadOnStart {
		// A backend that is down at startup is not fatal; collections stay
		// failed until the next refresh.
		if _, err := deps.DashboardService.Refresh(ctx); err != nil {
			lgr.Warn().Err(err).Msg("Initial dashboard load failed")
		}
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(cfg.Server.AuthSecret)
	if !deps.AuthMiddleware.Enabled() {
		lgr.Warn().Msg("No auth secret configured, API is open")
	}

	deps.DashboardController = appControllers.NewDashboardController(deps.DashboardService, deps.Client.BaseURL())
	deps.StudentController = appControllers.NewStudentController(deps.DashboardService)
	deps.DepartmentController = appControllers.NewDepartmentController(deps.DashboardService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		appMiddleware.RequestID(),
		appMiddleware.Logger(lgr),
		appMiddleware.Recovery(lgr),
	)

	appRoutes.SetupRouter(router,
		deps.DashboardController,
		deps.StudentController,
		deps.DepartmentController,
		deps.WebSocketHandler,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
