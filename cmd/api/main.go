package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BruksfildServices01/venue-booking/internal/audit"
	"github.com/BruksfildServices01/venue-booking/internal/cache"
	"github.com/BruksfildServices01/venue-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/venue-booking/internal/db"
	"github.com/BruksfildServices01/venue-booking/internal/logger"
	"github.com/BruksfildServices01/venue-booking/internal/metrics"
	"github.com/BruksfildServices01/venue-booking/internal/middleware"
	"github.com/BruksfildServices01/venue-booking/internal/notify"
	"github.com/BruksfildServices01/venue-booking/internal/payment"
	"github.com/BruksfildServices01/venue-booking/internal/routes"
	"github.com/BruksfildServices01/venue-booking/internal/storage"
	ucBooking "github.com/BruksfildServices01/venue-booking/internal/usecase/booking"
	"github.com/BruksfildServices01/venue-booking/internal/validators"
)

func main() {
	// .env is optional outside local development.
	_ = godotenv.Load()

	cfg := config.Load()
	logger.SetDefault(logger.New(cfg.LogLevel, cfg.IsRelease()))
	log := logger.Get()

	gin.SetMode(cfg.GinMode)
	metrics.Register()
	validators.Register()

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}

	// ======================================================
	// OPTIONAL INFRA
	// ======================================================
	var slotCache ucBooking.SlotCache
	redisClient, err := cache.Open(cfg.Redis)
	if err != nil {
		log.WithError(err).Warn("redis disabled, slot grids will not be cached")
	} else {
		slotCache = cache.NewService(redisClient, cfg.Redis.SlotTTL)
	}

	var gateway payment.Gateway = payment.NewOfflineGateway()
	if cfg.Payments.MercadoPagoToken != "" {
		mp, err := payment.NewMercadoPagoGateway(cfg.Payments.MercadoPagoToken)
		if err != nil {
			log.WithError(err).Fatal("mercado pago client")
		}
		gateway = mp
	} else {
		log.Warn("no payment gateway token, charges are recorded offline")
	}

	var uploader storage.Uploader
	s3, err := storage.NewS3Uploader(cfg.Storage)
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		log.Warn("object storage not configured, image uploads disabled")
	case err != nil:
		log.WithError(err).Fatal("object storage client")
	default:
		uploader = s3
	}

	publisher, err := notify.NewPublisher(cfg.Notify)
	if err != nil {
		log.WithError(err).Fatal("notification broker")
	}
	inbox := notify.NewGormStore(db)
	events := notify.NewDispatcher(inbox, publisher, cfg.Notify.QueueSize)
	auditLog := audit.NewDispatcher(audit.New(db), 100)

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()
	r.Use(
		gin.Recovery(),
		logger.RequestLogger(),
		metrics.Middleware(),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Cache:    slotCache,
		Gateway:  gateway,
		Uploader: uploader,
		Audit:    auditLog,
		Events:   events,
		Inbox:    inbox,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infof("Server running on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}

	events.Close()
	auditLog.Close()
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
