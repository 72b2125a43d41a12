package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"manok-system/config"
	"manok-system/internal/database"
	"manok-system/internal/database/models"
	"manok-system/internal/handlers"
	"manok-system/internal/middleware"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := initLogger(cfg.Server.Mode)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := models.MigrateDB(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	rdb := config.NewRedisClient(cfg.Redis)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit())

	budgetHandler := handlers.NewBudgetHandler(db, rdb, logger)
	orderHandler := handlers.NewOrderHandler(db, rdb, logger)
	supplyHandler := handlers.NewSupplyHandler(db, rdb, logger, cfg.Cache.TTL)
	dashboardHandler := handlers.NewDashboardHandler(db, rdb, logger, cfg.Cache.TTL)

	api := r.Group("/api/v1")
	{
		budgets := api.Group("/budgets")
		{
			budgets.POST("", budgetHandler.CreateBudget)
			budgets.GET("", budgetHandler.ListBudgets)
			budgets.GET("/current", budgetHandler.GetCurrentBudget)
			budgets.DELETE("/:id", budgetHandler.DeleteBudget)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.DELETE("/:id", orderHandler.DeleteOrder)
		}

		supplies := api.Group("/supplies")
		{
			supplies.GET("", supplyHandler.ListSupplies)
			supplies.PUT("/:id/refill", supplyHandler.RefillSupply)
			supplies.POST("/initialize", supplyHandler.InitializeSupplies)
		}

		api.GET("/dashboard/weekly", dashboardHandler.WeeklySummary)
	}

	r.GET("/health", healthCheckHandler())
	r.GET("/health/detailed", detailedHealthCheckHandler(db, rdb))

	addr := ":" + cfg.Server.Port
	logger.Info("Starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func initLogger(mode string) (*zap.Logger, error) {
	if mode == "release" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func healthCheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"message":   "Server is running",
			"timestamp": time.Now(),
		})
	}
}

func detailedHealthCheckHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		status := "healthy"
		httpStatus := http.StatusOK

		tables := gin.H{}
		counts := map[string]interface{}{
			"budgets":     &models.Budget{},
			"orders":      &models.Order{},
			"bag_weights": &models.BagWeight{},
			"costs":       &models.Cost{},
			"supplies":    &models.Supply{},
		}
		for name, model := range counts {
			var count int64
			if err := db.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
				status = "degraded"
				httpStatus = http.StatusPartialContent
				tables[name] = "unavailable"
				continue
			}
			tables[name] = count
		}

		redisStatus := "healthy"
		if err := rdb.Ping(ctx).Err(); err != nil {
			redisStatus = "unavailable"
			status = "degraded"
			httpStatus = http.StatusPartialContent
		}

		c.JSON(httpStatus, gin.H{
			"status":    status,
			"tables":    tables,
			"redis":     redisStatus,
			"timestamp": time.Now(),
		})
	}
}
