package app

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/casetrack/casetrack/internal/config"
	"github.com/casetrack/casetrack/internal/db"
	"github.com/casetrack/casetrack/internal/metrics"
	"github.com/casetrack/casetrack/internal/middleware"
	"github.com/casetrack/casetrack/internal/model"
	"github.com/casetrack/casetrack/internal/repository"
	"github.com/casetrack/casetrack/internal/service"
	"github.com/casetrack/casetrack/internal/storage"
	"github.com/casetrack/casetrack/internal/validation"
)

const caseCreateWindow = 24 * time.Hour

type App struct {
	Cfg      *config.Config
	DB       *sqlx.DB
	Storage  storage.Storage
	Metrics  *metrics.Collector
	Redis    *redis.Client
	Location *time.Location

	// CaseLimiter is nil when CASE_CREATE_LIMIT is 0.
	CaseLimiter middleware.Limiter

	AuthService          *service.AuthService
	UserService          *service.UserService
	CatalogService       *service.CatalogService
	CaseService          *service.CaseService
	ExportService        *service.ExportService
	ReportService        *service.ReportService
	PasswordResetService *service.PasswordResetService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize database")
	}

	// Run database migrations
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, errors.Wrap(err, "failed to run migrations")
	}

	// Storage
	blobStorage, err := storage.New(ctx, cfg)
	if err != nil {
		_ = database.Close()
		return nil, errors.Wrap(err, "failed to initialize storage")
	}

	// Optional shared rate limit store
	var redisClient *redis.Client
	if cfg.RedisAddress != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
		})
		err = redisClient.Ping(ctx).Err()
		if err != nil {
			_ = database.Close()
			return nil, errors.Wrap(err, "failed to connect to redis")
		}
	}

	a := Assemble(cfg, database, blobStorage, redisClient)
	return a, nil
}

// Assemble wires repositories and services over already opened resources.
// redisClient may be nil, in which case rate limits are kept in memory.
func Assemble(cfg *config.Config, database *sqlx.DB, blobStorage storage.Storage, redisClient *redis.Client) *App {
	location := cfg.Location()
	collector := metrics.NewCollector()

	// Repositories
	userRepository := repository.NewUserRepository(database)
	roleRepository := repository.NewLookupRepository(database, repository.TableRoles)
	caseTypeRepository := repository.NewLookupRepository(database, repository.TableCaseTypes)
	statusRepository := repository.NewLookupRepository(database, repository.TableCaseStatuses)
	caseRepository := repository.NewCaseRepository(database)
	reportRepository := repository.NewReportRepository(database)

	// Services
	policy := validation.DefaultPasswordPolicy
	authService := service.NewAuthService(
		userRepository,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.SessionExpiry,
		cfg.SessionRememberExpiry,
	)
	registry := service.NewFieldRegistry(model.CaseFields, model.CaseFieldsVersion)

	return &App{
		Cfg:         cfg,
		DB:          database,
		Storage:     blobStorage,
		Metrics:     collector,
		Redis:       redisClient,
		Location:    location,
		CaseLimiter: caseLimiter(cfg.CaseCreateLimit, redisClient),

		AuthService:    authService,
		UserService:    service.NewUserService(userRepository, roleRepository, policy),
		CatalogService: service.NewCatalogService(roleRepository, caseTypeRepository, statusRepository),
		CaseService: service.NewCaseService(
			caseRepository,
			userRepository,
			caseTypeRepository,
			statusRepository,
			blobStorage,
			collector,
		),
		ExportService:        service.NewExportService(reportRepository, registry, location),
		ReportService:        service.NewReportService(reportRepository, location),
		PasswordResetService: service.NewPasswordResetService(userRepository, policy),
	}
}

func caseLimiter(limit int, redisClient *redis.Client) middleware.Limiter {
	if limit <= 0 {
		return nil
	}
	if redisClient != nil {
		return middleware.NewRedisLimiter(redisClient, "ratelimit:cases", limit, caseCreateWindow)
	}
	return middleware.NewRateLimiter(limit, caseCreateWindow)
}

func (a *App) Close() error {
	var err error
	if a.Redis != nil {
		err = errors.CombineErrors(err, a.Redis.Close())
	}
	if a.DB != nil {
		err = errors.CombineErrors(err, a.DB.Close())
	}
	return err
}
