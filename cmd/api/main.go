// @title          autochef API
// @version        1.0
// @description    Restaurant back office: profile, ordered menu sections and items, image uploads.
// @BasePath       /
//
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
//
// @securityDefinitions.apikey RestaurantKey
// @in                         header
// @name                       X-Restaurant-Key
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/autochef0332/autochef/internal/api"
	"github.com/autochef0332/autochef/internal/api/handler"
	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ports"
	"github.com/autochef0332/autochef/internal/core/service"
	mongodb "github.com/autochef0332/autochef/internal/infrastructure/db/mongo"
	"github.com/autochef0332/autochef/internal/infrastructure/db/postgres"
	redisdb "github.com/autochef0332/autochef/internal/infrastructure/db/redis"
	"github.com/autochef0332/autochef/internal/infrastructure/events"
	"github.com/autochef0332/autochef/internal/infrastructure/media"
	"github.com/autochef0332/autochef/internal/pkg/config"
	"github.com/autochef0332/autochef/pkg/logger"
)

const serviceName = "autochef-api"

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
	})
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting autochef api")

	ctx := context.Background()

	// --- Postgres: restaurants, sections, items ---
	db, err := postgres.Open(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxOpenConns: cfg.Postgres.MaxOpenConns})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer db.Close()

	if err := postgres.ApplyMigrations(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("postgres migrations failed")
	}

	// --- MongoDB: users and change log ---
	mongoClient, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		AppName:     serviceName,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = mongoClient.Close(context.Background()) }()

	authRepo := mongodb.NewAuthRepository(mongoClient.DB)
	changeLog := mongodb.NewChangeLogRepository(mongoClient.DB)
	if err := mongoClient.EnsureIndexes(ctx, authRepo, changeLog); err != nil {
		log.Fatal().Err(err).Msg("mongodb indexes failed")
	}

	// --- Redis: collection cache ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	cacheLog := logger.Component("cache")
	sectionCache := redisdb.NewCollectionCache[domain.MenuSection](rdb, string(domain.EntitySection), cfg.Redis.CacheTTL, cacheLog)
	itemCache := redisdb.NewCollectionCache[domain.MenuItem](rdb, string(domain.EntityItem), cfg.Redis.CacheTTL, cacheLog)

	// --- Object storage: menu images ---
	store, err := media.New(media.Config{
		Endpoint:      cfg.Media.Endpoint,
		AccessKey:     cfg.Media.AccessKey,
		SecretKey:     cfg.Media.SecretKey,
		Bucket:        cfg.Media.Bucket,
		Region:        cfg.Media.Region,
		UseSSL:        cfg.Media.UseSSL,
		PublicBaseURL: cfg.Media.PublicBaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("media store init failed")
	}
	if err := store.EnsureBucket(ctx); err != nil {
		log.Fatal().Err(err).Msg("media bucket check failed")
	}

	// --- Change notifications ---
	sinks := []events.Sink{{Name: "change_log", Recorder: changeLog}}
	if len(cfg.Kafka.Brokers) > 0 {
		writer := events.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer writer.Close()
		sinks = append(sinks, events.Sink{Name: "kafka", Recorder: events.NewKafkaPublisher(writer)})
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("kafka publishing enabled")
	}
	var recorder ports.ChangeRecorder = events.NewFanout(sinks...)

	// --- Services ---
	restaurantRepo := postgres.NewRestaurantRepository(db)
	sectionRepo := postgres.NewSectionRepository(db)
	itemRepo := postgres.NewItemRepository(db)

	deps := service.ManagerDeps{
		Locker:  postgres.NewScopeLocker(db),
		Workers: cfg.Menu.ReorderWorkers,
		Logger:  logger.Component("ordering"),
	}
	sectionMgr := service.NewSectionManager(sectionRepo, sectionCache, deps)
	itemMgr := service.NewItemManager(itemRepo, itemCache, deps)

	menuLog := logger.Component("menu")
	mediaSvc := service.NewMediaService(store, cfg.Media.MaxBytes, logger.Component("media"))
	restaurantSvc := service.NewRestaurantService(restaurantRepo, recorder, logger.Component("restaurants"))

	e := api.NewRouter(api.Deps{
		Auth:        service.NewAuthService(authRepo, cfg.JWTSecret, cfg.JWTTTL),
		Sessions:    service.NewSessionService(restaurantRepo),
		Restaurants: restaurantSvc,
		Sections:    service.NewSectionService(restaurantRepo, sectionRepo, sectionMgr, itemMgr, mediaSvc, recorder, menuLog),
		Items:       service.NewItemService(restaurantRepo, sectionRepo, itemRepo, itemMgr, mediaSvc, recorder, menuLog),
		Media:       mediaSvc,
		Menus:       service.NewMenuService(restaurantSvc, sectionMgr, itemMgr),
		Health: []handler.Dependency{
			{Name: "postgres", Ping: db.PingContext},
			{Name: "mongodb", Ping: mongoClient.Ping},
			{Name: "redis", Ping: redisdb.Pinger(rdb)},
		},
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
