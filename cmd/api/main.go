package main

import (
	"log"
	"time"

	"parley-chat/config"
	"parley-chat/internal/handler"
	"parley-chat/internal/redis"
	"parley-chat/internal/repository"
	"parley-chat/internal/server"
	"parley-chat/internal/services"
	"parley-chat/pkg/database"
	"parley-chat/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.LogMode)
	logger.SetGlobalLogger(l)

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := repository.InitSchema(database.DB); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	redis.Initialize(redis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	redisClient := redis.GetClient()

	userRepo := repository.NewUserRepository(database.DB)
	groupRepo := repository.NewGroupRepository(database.DB)

	cacheCfg := redis.DefaultCacheConfig()
	cacheCfg.GroupListTTL = time.Duration(cfg.CacheTTLSec) * time.Second
	cache := redis.NewCacheStore(redisClient, cacheCfg)
	publisher := redis.NewPublisher(redisClient)

	limiterCfg := redis.DefaultRateLimitConfig()
	limiterCfg.GroupLimit = cfg.GroupRateLim
	limiter := redis.NewRateLimiter(redisClient, limiterCfg)

	authService := services.NewAuthService(userRepo, cfg)
	authz := services.NewAuthorizer(userRepo)
	groupService := services.NewGroupService(database.DB, groupRepo, userRepo, authz, cache, publisher, l)

	handlers := &server.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Groups: handler.NewGroupHandler(groupService),
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(handlers, authService, limiter)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
