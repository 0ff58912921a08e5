package main

import (
	"log"

	"restrolytics-backend/configs"
	"restrolytics-backend/internal/feeds"
	"restrolytics-backend/internal/handlers"
	"restrolytics-backend/internal/middleware"
	"restrolytics-backend/internal/services"
	"restrolytics-backend/pkg/auth"
	"restrolytics-backend/pkg/cache"
	"restrolytics-backend/pkg/messaging"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := configs.LoadConfig()

	gin.SetMode(config.Server.Mode)

	// Optional Redis cache for upstream responses and preferences.
	var redisCache *cache.RedisCache
	if config.Redis.Enabled {
		redisCache = cache.NewRedisCache(config.Redis.URL, config.Redis.Password, config.Redis.DB)
		if redisCache != nil {
			defer redisCache.Close()
		}
	}

	// Optional Kafka producer for dashboard usage events.
	var kafkaProducer *messaging.KafkaProducer
	if config.Kafka.Enabled {
		kafkaProducer = messaging.NewKafkaProducer(config.Kafka.Brokers, config.Kafka.UsageTopic)
		defer kafkaProducer.Close()
	}

	// Upstream API clients.
	analyticsService := services.NewAnalyticsService(config.Upstream.BaseURL, config.Upstream.Timeout, redisCache, config.Upstream.CacheTTL)
	restaurantService := services.NewRestaurantService(config.Upstream.BaseURL, config.Upstream.Timeout)
	preferenceService := services.NewPreferenceService(redisCache)

	// Feed coordinators.
	restaurantsFeed := feeds.NewRestaurantsFeed(restaurantService, config.Upstream.RestaurantsPerPage)
	analyticsFeed := feeds.NewAnalyticsFeed(analyticsService)
	ordersFeed := feeds.NewOrdersFeed(analyticsService)

	// Handlers.
	dashboardHandler := handlers.NewDashboardHandler(restaurantsFeed, analyticsFeed, ordersFeed, kafkaProducer)
	preferenceHandler := handlers.NewPreferenceHandler(preferenceService)

	router := gin.New()
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "restrolytics-backend",
		})
	})

	api := router.Group("/api/v1")

	// The dashboard API is open unless a JWT secret is configured.
	if config.JWT.SecretKey != "" {
		jwtManager := auth.NewJWTManager(config.JWT.SecretKey, config.JWT.ExpiryHours)
		authMiddleware := middleware.NewAuthMiddleware(jwtManager)
		api.Use(authMiddleware.AuthRequired())
	}

	dashboardHandler.RegisterRoutes(api)
	preferenceHandler.RegisterRoutes(api)

	log.Printf("Server starting on port %s", config.Server.Port)
	if err := router.Run(":" + config.Server.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
