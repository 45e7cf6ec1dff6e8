package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"forecastcrm/internal/auth"
	"forecastcrm/internal/cache"
	"forecastcrm/internal/clock"
	"forecastcrm/internal/config"
	cronrunner "forecastcrm/internal/cron"
	"forecastcrm/internal/db"
	"forecastcrm/internal/handler"
	"forecastcrm/internal/logger"
	"forecastcrm/internal/models"
	gormrepository "forecastcrm/internal/repository/gorm"
	"forecastcrm/internal/seed"
	"forecastcrm/internal/service"
)

func main() {
	cfgPath := os.Getenv("CRM_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("CRM_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	clk := clock.System()

	var statsCache cache.Store
	if cfg.Cache.RedisAddr != "" {
		statsCache = cache.NewRedisStore(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		logger.Info("cache backend: redis", zap.String("addr", cfg.Cache.RedisAddr))
	} else {
		statsCache = cache.NewMemoryStore()
		logger.Info("cache backend: memory")
	}

	jwt := auth.JWT{Secret: []byte(cfg.Auth.JWTSecret), TokenTTL: cfg.Auth.TokenTTL}

	insightSvc := &service.InsightService{
		Repo:         store,
		Logger:       logger,
		Clock:        clk,
		ModelVersion: cfg.Insight.ModelVersion,
	}
	dashboardSvc := &service.DashboardService{
		Repo:   store,
		Logger: logger,
		Clock:  clk,
		Cache:  statsCache,
		TTL:    cfg.Cache.DashboardTTL,
	}
	forecastSvc := &service.ForecastService{
		Repo:                 store,
		Logger:               logger,
		Clock:                clk,
		Horizon:              cfg.Forecast.Horizon,
		PipelineWeight:       cfg.Forecast.PipelineWeight,
		AssumedActivityCount: cfg.Forecast.AssumedActivityCount,
		ModelVersion:         cfg.Insight.ModelVersion,
	}
	retrainSvc := &service.RetrainService{
		Repo:            store,
		Logger:          logger,
		Clock:           clk,
		MinLabeledDeals: cfg.Retrain.MinLabeledDeals,
	}
	settingsSvc := &service.SettingsService{Repo: store}
	seeder := &seed.Seeder{Repo: store, Logger: logger, Clock: clk}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	seedHandler := &handler.SeedHandler{Seeder: seeder}
	seedHandler.Register(engine)

	authed := engine.Group("/api")
	authed.Use(auth.Middleware(jwt, store))

	authHandler := &handler.AuthHandler{Repo: store, JWT: jwt, Logger: logger}
	authHandler.Register(engine, authed)
	dashboardHandler := &handler.DashboardHandler{Stats: dashboardSvc}
	dashboardHandler.Register(authed)
	accountHandler := &handler.AccountHandler{Repo: store, Logger: logger}
	accountHandler.Register(authed)
	dealHandler := &handler.DealHandler{Repo: store, Insights: insightSvc, Logger: logger}
	dealHandler.Register(authed)
	forecastHandler := &handler.ForecastHandler{Forecast: forecastSvc}
	forecastHandler.Register(authed)
	mlHandler := &handler.MLHandler{Retrain: retrainSvc}
	mlHandler.Register(authed)
	adminHandler := &handler.AdminHandler{Repo: store, Logger: logger}
	adminHandler.Register(authed)
	settingsHandler := &handler.SettingsHandler{Settings: settingsSvc}
	settingsHandler.Register(authed)
	teamHandler := &handler.TeamHandler{Repo: store}
	teamHandler.Register(authed)
	auditHandler := &handler.AuditHandler{Repo: store}
	auditHandler.Register(authed)
	leadHandler := &handler.LeadHandler{Repo: store}
	leadHandler.Register(authed)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)

		// Org-wide forecast refresh so snapshots stay warm without an
		// admin hitting the endpoint.
		orgAdmin := &models.User{ID: "system-cron", Role: models.RoleAdmin}
		_, err = cronRunner.Add("forecast-refresh", cfg.Cron.ForecastRefresh, func(ctx context.Context) {
			if _, err := forecastSvc.Forecast(ctx, orgAdmin); err != nil {
				logger.Warn("cron forecast refresh failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register forecast refresh failed", zap.Error(err))
		}

		_, err = cronRunner.Add("nightly-retrain", cfg.Cron.NightlyRetrain, func(ctx context.Context) {
			result, err := retrainSvc.Retrain(ctx, orgAdmin)
			if err != nil {
				logger.Warn("cron retrain failed", zap.Error(err))
				return
			}
			logger.Info("cron retrain ok",
				zap.Bool("trained", result.Trained),
				zap.Int("labeled_deals", result.DealCount),
				zap.Int("updated_deals", result.UpdatedDeals))
		})
		if err != nil {
			logger.Warn("cron register retrain failed", zap.Error(err))
		}

		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
