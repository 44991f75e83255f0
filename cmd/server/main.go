package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"mgb-rewards-backend/internal/common/cache"
	"mgb-rewards-backend/internal/common/config"
	"mgb-rewards-backend/internal/common/logger"
	"mgb-rewards-backend/internal/common/middleware"
	promoHTTP "mgb-rewards-backend/internal/features/promo/delivery/http"
	promoRedis "mgb-rewards-backend/internal/features/promo/repository/redis"
	promoService "mgb-rewards-backend/internal/features/promo/service"
	settingsHTTP "mgb-rewards-backend/internal/features/settings/delivery/http"
	settingsModels "mgb-rewards-backend/internal/features/settings/models"
	settingsRedis "mgb-rewards-backend/internal/features/settings/repository/redis"
	settingsService "mgb-rewards-backend/internal/features/settings/service"
	tasksHTTP "mgb-rewards-backend/internal/features/tasks/delivery/http"
	tasksRedis "mgb-rewards-backend/internal/features/tasks/repository/redis"
	tasksService "mgb-rewards-backend/internal/features/tasks/service"
	userHTTP "mgb-rewards-backend/internal/features/user/delivery/http"
	userRedis "mgb-rewards-backend/internal/features/user/repository/redis"
	userService "mgb-rewards-backend/internal/features/user/service"
	walletHTTP "mgb-rewards-backend/internal/features/wallet/delivery/http"
	walletRedis "mgb-rewards-backend/internal/features/wallet/repository/redis"
	walletService "mgb-rewards-backend/internal/features/wallet/service"
	platformRedis "mgb-rewards-backend/internal/platform/redis"
)

// @title           MGB Rewards API
// @version         1.0
// @description     Backend for the MGB rewards Telegram Mini App: balances, daily tasks, promo codes and TON withdrawals. All endpoints require init_data authentication.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey TelegramInitData
// @in header
// @name init_data
// @description Telegram Mini App init_data string for authentication

// @tag.name users
// @tag.description Authentication and earning statistics

// @tag.name wallet
// @tag.description Wallet details and payment systems

// @tag.name withdrawals
// @tag.description Withdrawal requests and history

// @tag.name tasks
// @tag.description Daily tasks and ad watching

// @tag.name promo
// @tag.description Promo code redemption

// @tag.name settings
// @tag.description Application settings

// @tag.name admin
// @tag.description Admin workflow

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger.Init("mgb-rewards-backend", cfg.Debug)

	redisClient, err := platformRedis.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")

	cacheService := cache.NewService(redisClient.Client)

	// Repositories
	userRepository := userRedis.NewUserRepository(redisClient.Client)
	walletRepository := walletRedis.NewWalletRepository(redisClient.Client)
	settingsRepository := settingsRedis.NewSettingsRepository(redisClient.Client)
	taskRepository := tasksRedis.NewTaskRepository(redisClient.Client)
	promoRepository := promoRedis.NewPromoRepository(redisClient.Client)

	// Services
	userSvc := userService.NewUserService(userRepository)
	settingsSvc := settingsService.NewSettingsService(settingsRepository, cacheService, settingsDefaults(cfg))
	walletSvc := walletService.NewWalletService(walletRepository, userRepository, settingsSvc, cacheService)
	taskSvc := tasksService.NewTaskService(taskRepository, userSvc, settingsSvc, cfg.App.CommunityChatLink)
	promoSvc := promoService.NewPromoService(promoRepository, userSvc)

	logger.Info().Msg("Services initialized")

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "init_data"}
	router.Use(cors.New(corsConfig))

	// API routes
	initDataTTL := time.Duration(cfg.Telegram.InitDataTTL) * time.Second
	v1 := router.Group("/api/v1")
	v1.Use(middleware.TelegramInitData(cfg.Telegram.BotToken, initDataTTL))
	v1.Use(middleware.AutoCreateUser(userSvc))

	userHTTP.NewUserHandler(userSvc).RegisterRoutes(v1)
	settingsHTTP.NewSettingsHandler(settingsSvc).RegisterRoutes(v1, cfg.Telegram.AdminIDs)
	walletHTTP.NewWalletHandler(walletSvc).RegisterRoutes(v1, cfg.Telegram.AdminIDs)
	tasksHTTP.NewTaskHandler(taskSvc).RegisterRoutes(v1)
	promoHTTP.NewPromoHandler(promoSvc).RegisterRoutes(v1, cfg.Telegram.AdminIDs)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerProbes(router, redisClient)

	logger.Info().Msg("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}
	logger.Info().Msg("Server stopped")
}

func settingsDefaults(cfg *config.Config) settingsModels.AppSettings {
	return settingsModels.AppSettings{
		DailyAdLimit:      cfg.App.DailyAdLimit,
		MinimumWithdrawal: decimal.RequireFromString(cfg.App.MinimumWithdrawal),
		AdReward:          decimal.RequireFromString(cfg.App.AdReward),
	}
}

func registerProbes(router *gin.Engine, redisClient *platformRedis.Client) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "mgb-rewards-backend",
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "redis unavailable",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   "mgb-rewards-backend",
		})
	})
}
