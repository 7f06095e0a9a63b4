package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/warrenmedia/api-go/clients"
	"github.com/warrenmedia/api-go/config"
	"github.com/warrenmedia/api-go/controllers"
	"github.com/warrenmedia/api-go/logger"
	"github.com/warrenmedia/api-go/metrics"
	"github.com/warrenmedia/api-go/routes"
	"github.com/warrenmedia/api-go/services"
	"gorm.io/gorm"
)

const serviceName = "warren-api"

func main() {
	envErr := godotenv.Load()

	cfg, err := config.LoadAppConfig()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log := logger.New(serviceName, cfg.LogLevel)
	if envErr != nil {
		log.Info("no .env file loaded, using process environment")
	}

	// Initialize database
	db, err := config.InitDB(log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	limiter, closeLimiter := newLimiter(cfg, db, log, m)
	defer closeLimiter()

	var pipeline services.VideoPipeline
	if muxConfig := config.GetMuxConfig(); muxConfig.Configured() {
		pipeline = clients.NewMuxClient(muxConfig)
	} else {
		log.Warn("MUX_TOKEN_ID/MUX_TOKEN_SECRET not set, video uploads disabled")
	}

	if cfg.AuthServiceKey == "" {
		log.Warn("AUTH_SERVICE_KEY not set, auth attempt recording disabled")
	}

	r2Config := config.GetR2Config()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), logger.RequestLogger(log), m.Middleware())

	// Initialize routes
	routes.SetupRoutes(r, routes.Dependencies{
		DB:       db,
		Config:   cfg,
		Log:      log,
		Metrics:  m,
		Limiter:  limiter,
		Pipeline: pipeline,
		R2Client: controllers.NewR2Client(r2Config),
		R2Config: r2Config,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
}

// newLimiter picks the rate limit store. The returned func releases it.
func newLimiter(cfg *config.AppConfig, db *gorm.DB, log *logrus.Logger, m *metrics.Metrics) (services.Limiter, func()) {
	if cfg.RateLimitStore != "redis" {
		return services.NewDBLimiter(db, log, m), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		// Limiter checks fail open until redis is reachable.
		log.WithError(err).Warn("redis ping failed")
	}

	log.WithFields(logrus.Fields{
		"addr":      cfg.RedisAddr,
		"retention": cfg.LongestWindow().String(),
	}).Info("using redis rate limiter")
	return services.NewRedisLimiter(client, cfg.LongestWindow(), log, m), func() { client.Close() }
}
