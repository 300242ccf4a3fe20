package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindscreen/internal/artifact"
	"mindscreen/internal/cache"
	"mindscreen/internal/config"
	"mindscreen/internal/engine"
	"mindscreen/internal/logging"
	"mindscreen/internal/repository"
	"mindscreen/internal/service"
	"mindscreen/internal/transport/rest"
	"mindscreen/internal/transport/ws"
)

// @title Student Mental Health Assessment API
// @version 1.0
// @description Questionnaire risk screening with safety overrides
// @host localhost:8080
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.SetDefault(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	models := loadModels(ctx, cfg, logger)
	eng := engine.New(models, logger)
	st := eng.Status()
	logger.Info("engine ready",
		"model_loaded", st.ModelLoaded,
		"scaler_loaded", st.ScalerLoaded,
		"features", st.FeaturesCount,
		"model_type", st.ModelType,
		"safety_overrides", "enabled")

	// MongoDB connection (optional)
	var repo repository.AssessmentRepo
	mongoClient, err := connectMongo(ctx, cfg.MongoURI)
	if err != nil {
		logger.Warn("MongoDB unavailable, assessments will not be stored", "error", err)
	} else {
		defer mongoClient.Disconnect(context.Background())
		db := mongoClient.Database(cfg.MongoDatabase)
		if err := repository.EnsureIndexes(ctx, db); err != nil {
			logger.Warn("failed to create indexes", "error", err)
		}
		repo = repository.NewAssessmentRepo(db)
		logger.Info("connected to MongoDB", "database", cfg.MongoDatabase)
	}

	// Redis connection (optional)
	var assessmentCache cache.AssessmentCache
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unavailable, counters and latest results disabled", "addr", cfg.RedisAddr, "error", err)
	} else {
		assessmentCache = cache.NewAssessmentCache(rdb)
		logger.Info("connected to Redis", "addr", cfg.RedisAddr)
	}
	cancel()

	// Initialize WebSocket hub
	wsHub := ws.NewHub(logger)
	defer wsHub.Close()

	// Initialize services
	authSvc := service.NewAuthService(cfg.Auth)
	if !cfg.AdminEnabled() {
		logger.Warn("ADMIN_PASSWORD or JWT_SECRET not set, admin routes are disabled")
	}
	assessmentSvc := service.NewAssessmentService(eng, repo, assessmentCache, logger)
	assessmentSvc.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		AuthService:       authSvc,
		AssessmentService: assessmentSvc,
		WSHub:             wsHub,
		CORS:              cfg.CORS,
		Logger:            logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ListenAndServe failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

// loadModels reads the configured artifact. Any failure leaves the engine
// degraded on the heuristic scorer rather than stopping the server.
func loadModels(ctx context.Context, cfg *config.Config, logger *slog.Logger) *engine.ModelContext {
	loader := artifact.NewLoader(artifact.WithRegion(cfg.AWSRegion), artifact.WithLogger(logger))

	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	a, err := loader.Load(loadCtx, cfg.ModelArtifact)
	if err != nil {
		logger.Warn("model artifact unavailable, using fallback predictions",
			"location", cfg.ModelArtifact,
			"error", errors.Join(engine.ErrArtifactUnavailable, err))
		return engine.DegradedContext()
	}
	return a.ModelContext()
}

func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}
