package app

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	swagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/shakeeb2001/Weather-App/docs"
	"github.com/shakeeb2001/Weather-App/internal/cache"
	"github.com/shakeeb2001/Weather-App/internal/config"
	"github.com/shakeeb2001/Weather-App/internal/emailer"
	"github.com/shakeeb2001/Weather-App/internal/handlers/user"
	"github.com/shakeeb2001/Weather-App/internal/metrics"
	"github.com/shakeeb2001/Weather-App/internal/models"
	"github.com/shakeeb2001/Weather-App/internal/notifier"
	"github.com/shakeeb2001/Weather-App/internal/pipeline"
	"github.com/shakeeb2001/Weather-App/internal/repository"
	"github.com/shakeeb2001/Weather-App/internal/services/email"
	"github.com/shakeeb2001/Weather-App/internal/services/logger"
	"github.com/shakeeb2001/Weather-App/internal/services/report"
	serviceWeather "github.com/shakeeb2001/Weather-App/internal/services/weather"
)

const (
	timeoutDuration = 5 * time.Second

	fileMode = 0o644

	defaultCacheTTL = 10 * time.Minute
)

type App struct {
	cfg config.Config
	log *log.Logger
}

type ServiceContainer struct {
	Pipeline       *pipeline.Pipeline
	Notificator    *notifier.Notifier
	UserRepository *repository.UserRepository
	EmailService   *email.Service
	ReportService  *report.Service
	Metrics        *metrics.Metrics

	Router *gin.Engine
	Srv    *http.Server
	Db     *sql.DB

	fileLogger *zap.Logger
}

func New(cfg config.Config, logger *log.Logger) *App {
	return &App{
		cfg: cfg,
		log: logger,
	}
}

func (a *App) Init() ServiceContainer {
	a.log.Println("Initializing application on port", a.cfg.Server.Port)

	db, err := CreateSqliteDb(a.cfg.DB.Dialect, a.cfg.DB.Source)
	if err != nil {
		a.log.Panic(err)
	}

	if err := InitSqliteDb(db, a.cfg.DB.Dialect, a.cfg.DB.MigrationsPath); err != nil {
		a.log.Panic(err)
	}

	router := gin.Default()

	apiServer := &http.Server{
		Addr:        a.cfg.ServerAddress(),
		Handler:     router,
		ReadTimeout: time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
	}

	userRepository := repository.NewUserRepository(db, a.log)

	fileLogger, err := newFileLogger(a.cfg.LogsPath)
	if err != nil {
		a.log.Panicf("failed to create file logger: %v", err)
	}

	httpLogClient := &http.Client{
		Transport: logger.NewRoundTripper(fileLogger),
	}
	weatherClient := a.weatherClient(httpLogClient)

	smtpService := emailer.NewSMTPService(&a.cfg, a.log)
	emailService := email.NewService(smtpService)
	reportService := report.NewService()

	pipe := pipeline.New(
		weatherClient,
		userRepository,
		reportService,
		emailService,
		clockwork.NewRealClock(),
		a.log,
	)

	m := metrics.NewMetrics("weatherapp", db, a.cfg.DB.Source)

	notificator := notifier.New(
		userRepository,
		pipe,
		a.log,
		m,
		a.cfg.Notifier.CronSpec,
		a.cfg.Notifier.MaxConcurrent,
	)

	return ServiceContainer{
		Pipeline:       pipe,
		Notificator:    notificator,
		UserRepository: userRepository,
		EmailService:   emailService,
		ReportService:  reportService,
		Metrics:        m,

		Router: router,
		Srv:    apiServer,
		Db:     db,

		fileLogger: fileLogger,
	}
}

type weatherFetcher interface {
	Fetch(ctx context.Context, location string) (models.Snapshot, error)
}

// weatherClient assembles the provider client with its breaker and, when
// redis is configured, a short-TTL snapshot cache.
func (a *App) weatherClient(httpClient *http.Client) weatherFetcher {
	openWeatherMapClient := serviceWeather.NewOpenWeatherMapClient(
		a.cfg.OpenWeatherMapAPIKey,
		a.cfg.OpenWeatherMapURL,
		httpClient,
		a.log,
	)

	breakerClient := serviceWeather.NewBreakerClient("OpenWeatherMap", openWeatherMapClient)

	if a.cfg.Cache.RedisAddr == "" {
		return breakerClient
	}

	ttl, err := time.ParseDuration(a.cfg.Cache.TTL)
	if err != nil {
		a.log.Printf("invalid WEATHER_CACHE_TTL %q, using default: %v", a.cfg.Cache.TTL, err)
		ttl = defaultCacheTTL
	}

	redisClient := redis.NewClient(&redis.Options{Addr: a.cfg.Cache.RedisAddr})
	snapshotCache := cache.NewRedisClient[models.Snapshot](redisClient, a.log)

	return serviceWeather.NewCachedClient(breakerClient, snapshotCache, a.log, ttl)
}

func (a *App) Start(srvContainer ServiceContainer) error {
	a.log.Println("Starting server on", a.cfg.ServerAddress())

	corsCfg := cors.DefaultConfig()
	if a.cfg.Server.AllowedOrigin == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{a.cfg.Server.AllowedOrigin}
	}
	corsCfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut}

	srvContainer.Router.Use(cors.New(corsCfg), srvContainer.Metrics.HTTPMiddleware())

	userHandler := user.NewHandler(
		srvContainer.UserRepository,
		srvContainer.Pipeline,
		srvContainer.Metrics,
		a.log,
	)

	srvContainer.Router.POST("/users", userHandler.Create)
	srvContainer.Router.PUT("/users/:email", userHandler.UpdateLocation)
	srvContainer.Router.GET("/users/:email/weather", userHandler.GetWeather)
	srvContainer.Router.POST("/send-weather-report", userHandler.SendReport)

	srvContainer.Router.GET("/metrics", gin.WrapH(srvContainer.Metrics.Handler()))
	srvContainer.Router.GET("/swagger/*any", swagger.WrapHandler(swaggerfiles.Handler))

	if err := srvContainer.Notificator.Start(context.Background()); err != nil {
		return err
	}

	if err := srvContainer.Srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (a *App) Stop(srvContainer ServiceContainer) error {
	a.log.Println("Stopping application…")

	srvContainer.Notificator.Stop()
	a.log.Println("Notifier stopped")

	ctx, cancel := context.WithTimeout(context.Background(), timeoutDuration)
	defer cancel()

	if err := srvContainer.Srv.Shutdown(ctx); err != nil {
		a.log.Println("HTTP shutdown error:", err)
	} else {
		a.log.Println("HTTP server stopped")
	}

	if err := srvContainer.Db.Close(); err != nil {
		a.log.Println("DB close error:", err)
	} else {
		a.log.Println("Database closed")
	}

	if err := srvContainer.fileLogger.Sync(); err != nil {
		a.log.Printf("failed to sync file logger: %v", err)
	}

	a.log.Println("Shutdown complete")
	return nil
}

func CreateSqliteDb(dialect, name string) (*sql.DB, error) {
	if name == "" {
		return nil, errors.New("database name cannot be empty")
	}
	connectionString := "file:" + name + "?cache=shared&mode=rwc"
	db, err := sql.Open(dialect, connectionString)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func InitSqliteDb(db *sql.DB, dialect, migrationPath string) error {
	log.Println("Initializing migrations:", migrationPath)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}

	if err := goose.Up(db, migrationPath); err != nil {
		return err
	}

	return nil
}

func newFileLogger(filePath string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(filepath.Clean(filePath)), 0o755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filepath.Clean(filePath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode)
	if err != nil {
		return nil, err
	}

	writer := zapcore.AddSync(file)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		writer,
		zap.InfoLevel,
	)
	return zap.New(core), nil
}
