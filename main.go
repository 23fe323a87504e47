package main

import (
	"context"
	"fmt"
	"time"

	"github.com/annazecevic/catalog-service/config"
	"github.com/annazecevic/catalog-service/handler"
	"github.com/annazecevic/catalog-service/logger"
	"github.com/annazecevic/catalog-service/middleware"
	"github.com/annazecevic/catalog-service/repository"
	"github.com/annazecevic/catalog-service/service"
	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(logger.Config{
		ServiceName: "catalog-service",
		Environment: cfg.Environment,
		LogFilePath: cfg.LogFilePath,
		HMACKey:     cfg.LogHMACKey,
		MaxSizeMB:   cfg.LogMaxSizeMB,
		MaxBackups:  cfg.LogMaxBackups,
		MaxAgeDays:  cfg.LogMaxAgeDays,
	})

	logger.Info(logger.EventServiceStartup, "Catalog service starting", logger.Fields(
		"port", cfg.ServerPort,
		"environment", cfg.Environment,
	))

	catalogDB, err := repository.OpenCatalogDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Fatal(logger.EventDBError, "Failed to open catalog database", logger.Fields("error", err.Error()))
	}
	sqlDB, err := catalogDB.DB()
	if err != nil {
		logger.Fatal(logger.EventDBError, "Failed to access catalog connection pool", logger.Fields("error", err.Error()))
	}
	defer sqlDB.Close()
	logger.Info(logger.EventDBConnection, "Connected to catalog database", logger.Fields("driver", cfg.DBDriver))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal(logger.EventDBError, "Failed to connect to MongoDB", logger.Fields("error", err.Error()))
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		logger.Fatal(logger.EventDBError, "Failed to ping MongoDB", logger.Fields("error", err.Error()))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error(logger.EventDBError, "Error disconnecting from MongoDB", logger.Fields("error", err.Error()))
		}
	}()
	logger.Info(logger.EventDBConnection, "Connected to MongoDB successfully", logger.Fields("database", cfg.MongoDatabase))

	cluster := gocql.NewCluster(cfg.CassandraHosts...)
	cluster.Keyspace = cfg.CassandraKeyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = 10 * time.Second
	cluster.ConnectTimeout = 10 * time.Second

	session, err := cluster.CreateSession()
	if err != nil {
		logger.Fatal(logger.EventDBError, "Failed to connect to Cassandra", logger.Fields("error", err.Error()))
	}
	defer session.Close()
	logger.Info(logger.EventDBConnection, "Connected to Cassandra successfully", logger.Fields("keyspace", cfg.CassandraKeyspace))

	catalogRepo := repository.NewCatalogRepository(catalogDB)
	ratingRepo := repository.NewRatingRepository(mongoClient.Database(cfg.MongoDatabase))
	commentRepo := repository.NewCommentRepository(session)

	// Ratings and comments double as aggregate sources and as cleaners
	// when a song or album is deleted.
	catalogService := service.NewCatalogService(catalogRepo, ratingRepo, commentRepo, ratingRepo, commentRepo)
	ratingService := service.NewRatingService(ratingRepo, catalogService)
	commentService := service.NewCommentService(commentRepo, catalogService)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	defer limiter.Stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)

	router := gin.Default()
	router.RedirectTrailingSlash = false
	router.Use(metrics.Middleware(), middleware.SecurityHeaders(), limiter.Middleware(), middleware.ValidateRequest(middleware.DefaultMaxBodyBytes))
	router.GET("/metrics", metrics.Handler())

	health := handler.NewHealthHandler(map[string]handler.HealthCheck{
		"catalog_db": sqlDB.PingContext,
		"mongo":      func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
		"cassandra": func(ctx context.Context) error {
			return session.Query("SELECT release_version FROM system.local").WithContext(ctx).Exec()
		},
	})
	router.GET("/health", health.Health)

	auth := middleware.AuthMiddleware(cfg.JWTSecret)
	api := router.Group("/catalog")
	handler.NewCatalogHandler(catalogService).RegisterRoutes(api, auth)
	handler.NewRatingHandler(ratingService).RegisterRoutes(api, auth)
	handler.NewCommentHandler(commentService).RegisterRoutes(api, auth)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logger.Info(logger.EventServiceStartup, "Server starting", logger.Fields("address", addr))
	if err := router.Run(addr); err != nil {
		logger.Fatal(logger.EventGeneral, "Failed to start server", logger.Fields("error", err.Error()))
	}
}
