package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/unitrack/internal/app/controllers"
	appMigrations "github.com/yigit/unitrack/internal/app/migrations"
	"github.com/yigit/unitrack/internal/app/progress"
	appRepos "github.com/yigit/unitrack/internal/app/repositories"
	appRoutes "github.com/yigit/unitrack/internal/app/routes"
	appServices "github.com/yigit/unitrack/internal/app/services"
	"github.com/yigit/unitrack/internal/app/tracker"
	"github.com/yigit/unitrack/internal/config"
	"github.com/yigit/unitrack/internal/db"
	appMiddleware "github.com/yigit/unitrack/internal/middleware"
	pkgAuth "github.com/yigit/unitrack/internal/pkg/auth"
	"github.com/yigit/unitrack/internal/pkg/blobstore"
	"github.com/yigit/unitrack/internal/pkg/gemini"
	"github.com/yigit/unitrack/internal/pkg/helpers"
	"github.com/yigit/unitrack/internal/pkg/logger"
	"github.com/yigit/unitrack/internal/pkg/weather"
	"github.com/yigit/unitrack/internal/pkg/websocket"
)

// DefaultConfigPath is read when no other path is given
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Config         *config.Config
	Logger         zerolog.Logger
	BlobStore      blobstore.Store
	Repos          *appRepos.Repositories
	Store          *tracker.Store
	Hub            *websocket.Hub
	Advisor        *gemini.Client
	Weather        *weather.Service
	JWTService     *pkgAuth.JWTService
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
}

// Close drains pending writes and releases the storage backend
func (d *Dependencies) Close() error {
	var err error
	if d.Store != nil {
		err = d.Store.Close()
	}
	if d.BlobStore != nil {
		if cerr := d.BlobStore.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: cfg.IsPretty(),
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// OpenStorage opens the blob store selected by the storage driver. The
// postgres driver applies pending migrations first.
func OpenStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (blobstore.Store, error) {
	lgr = lgr.With().Str("driver", cfg.Storage.Driver).Logger()

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		lgr.Warn().Msg("Using in-memory storage, data is lost on exit")
		return blobstore.NewMemory(), nil

	case config.StorageFile:
		lgr.Info().Str("path", cfg.Storage.Path).Msg("Opening file storage")
		return blobstore.NewFile(cfg.Storage.Path, lgr)

	case config.StorageSQLite:
		lgr.Info().Str("path", cfg.Storage.SQLitePath).Msg("Opening sqlite storage")
		return blobstore.NewSQLite(ctx, cfg.Storage.SQLitePath, lgr)

	case config.StorageRedis:
		lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Connecting to redis")
		return blobstore.DialRedis(ctx, blobstore.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Storage.KeyPrefix,
		})

	case config.StoragePostgres:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")

		lgr.Info().Msg("Running database migrations...")
		if err := appMigrations.NewMigrator(database, lgr).Migrate(ctx); err != nil {
			database.Close()
			lgr.Error().Err(err).Msg("Database migration error")
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")
		return blobstore.NewPostgres(database.Pool), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// Policy builds the progress thresholds from configuration
func Policy(cfg *config.Config) progress.Policy {
	return progress.Policy{
		ThesisThreshold: cfg.Tracker.ThesisThresholdECTS,
		TotalRequired:   cfg.Tracker.TotalRequiredECTS,
		Catalog: progress.Catalog{
			Groups: cfg.Tracker.ModuleGroups,
			Target: cfg.Tracker.GroupTarget,
		},
	}
}

// OpenTracker creates the tracker store over the slot repository and loads it
func OpenTracker(ctx context.Context, cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) (*tracker.Store, error) {
	store := tracker.New(repos.SlotRepository,
		tracker.WithLogger(lgr.With().Str("component", "tracker").Logger()),
		tracker.WithSaveIndicatorDelay(helpers.ParseDuration(cfg.Tracker.SaveIndicatorDelay, 500*time.Millisecond)),
	)
	if err := store.Load(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load tracker data: %w", err)
	}
	return store, nil
}

// BuildDependencies initializes the tracker, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, blobs blobstore.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg, Logger: lgr, BlobStore: blobs}

	deps.Repos = appRepos.NewRepositories(blobs)

	var err error
	deps.Store, err = OpenTracker(ctx, cfg, deps.Repos, lgr)
	if err != nil {
		return nil, err
	}

	deps.Hub = websocket.NewHub(lgr.With().Str("component", "websocket").Logger())
	websocket.Attach(deps.Hub, deps.Store)

	deps.Advisor, err = gemini.New(ctx, gemini.Config{
		APIKey:            cfg.Gemini.APIKey,
		Model:             cfg.Gemini.Model,
		VisionModel:       cfg.Gemini.VisionModel,
		MaxRetries:        cfg.Gemini.MaxRetries,
		RateLimitCooldown: helpers.ParseDuration(cfg.Gemini.RateLimitCooldown, 30*time.Second),
		TotalRequiredECTS: cfg.Tracker.TotalRequiredECTS,
	}, lgr.With().Str("component", "gemini").Logger())
	if err != nil {
		deps.Store.Close()
		return nil, err
	}

	deps.Weather = weather.NewService(weather.Config{
		BaseURL:   cfg.Weather.BaseURL,
		Latitude:  cfg.Weather.Latitude,
		Longitude: cfg.Weather.Longitude,
		CacheTTL:  helpers.ParseDuration(cfg.Weather.CacheTTL, weather.DefaultCacheTTL),
		CacheKey:  appRepos.SlotWeather,
	}, deps.Repos.SlotRepository, lgr.With().Str("component", "weather").Logger())

	if cfg.Auth.Enabled {
		deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
			SecretKey:      cfg.Auth.Secret,
			AccessTokenExp: helpers.ParseDuration(cfg.Auth.TokenExpiration, 24*time.Hour),
			TokenIssuer:    cfg.Auth.Issuer,
		})
	} else {
		lgr.Warn().Msg("API authentication disabled")
	}

	deps.Services = appServices.NewServices(appServices.Options{
		Store:          deps.Store,
		Slots:          deps.Repos.SlotRepository,
		Policy:         Policy(cfg),
		Advisor:        deps.Advisor,
		JWT:            deps.JWTService,
		PassphraseHash: cfg.Auth.PassphraseHash,
		Logger:         lgr,
	})

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	svc := deps.Services
	deps.Controllers = appRoutes.Controllers{
		Health:   appControllers.NewHealthController(cfg.Storage.Driver),
		Auth:     appControllers.NewAuthController(svc.Auth, lgr),
		Course:   appControllers.NewCourseController(svc.Course),
		Area:     appControllers.NewAreaController(svc.Area),
		Profile:  appControllers.NewProfileController(svc.Profile, svc.Course, svc.Area),
		Progress: appControllers.NewProgressController(svc.Progress),
		Backup:   appControllers.NewBackupController(svc.Backup),
		Advisor:  appControllers.NewAdvisorController(svc.Advisor),
		Weather:  appControllers.NewWeatherController(deps.Weather),
		Feed:     websocket.NewHandler(deps.Hub, lgr.With().Str("component", "websocket").Logger()),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.Recovery(lgr), logger.GinMiddleware(lgr))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
