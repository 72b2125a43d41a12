package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"manok-system/internal/calc"
	"manok-system/internal/database/models"
)

type DashboardHandler struct {
	db       *gorm.DB
	redis    *redis.Client
	logger   *zap.Logger
	cacheTTL time.Duration
}

func NewDashboardHandler(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger, cacheTTL time.Duration) *DashboardHandler {
	return &DashboardHandler{
		db:       db,
		redis:    redisClient,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// WeeklySummary is the dashboard's one-call endpoint: the week window, the
// active budget's lifetime numbers, the week-scoped numbers, a per-day
// breakdown and the alert list. The weekly figures cover only orders inside
// the window; the budget block always covers every order of the budget. Both
// views are kept because percentage alerts key off lifetime spend while the
// chart shows the week.
func (h *DashboardHandler) WeeklySummary(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now().UTC()

	var window calc.Window
	if s := c.Query("startDate"); s != "" {
		startDate, err := parseDate(s)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid startDate")
			return
		}
		window = calc.WeekWindowFrom(startDate)
	} else {
		window = calc.WeekWindow(now)
	}

	cacheKey := DASHBOARD_CACHE_PREFIX + window.Start.Format("2006-01-02")

	val, err := h.redis.Get(ctx, cacheKey).Result()
	if err == nil {
		var cached map[string]interface{}
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	} else if err != redis.Nil {
		h.logger.Warn("redis error on GET, falling back to DB", zap.Error(err))
	}

	budget, err := activeBudget(h.db.WithContext(ctx), h.logger)
	if err != nil {
		h.logger.Error("failed to load active budget", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to fetch dashboard data")
		return
	}

	var supplies []models.Supply
	if err := h.db.WithContext(ctx).Find(&supplies).Error; err != nil {
		h.logger.Error("failed to load supplies", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to fetch dashboard data")
		return
	}

	var budgetOut gin.H
	alerts := calc.SupplyAlerts(supplies, now)

	weekly := calc.WeekSummary{}
	var breakdown []calc.DailyTotal

	if budget != nil {
		totalSpent := calc.BudgetSpent(budget.Orders)
		summary := calc.WeeklySummary(budget.Orders, window)
		weekly = summary
		breakdown = summary.DailyBreakdown

		budgetOut = gin.H{
			"id":         budget.ID,
			"allocated":  money(budget.Amount),
			"spent":      money(totalSpent),
			"remaining":  money(budget.Amount.Sub(totalSpent)),
			"percentage": calc.BudgetPercentage(budget.Amount, totalSpent),
		}

		alerts = append(calc.BudgetAlerts(budget.Amount, totalSpent), alerts...)
	}

	if breakdown == nil {
		breakdown = []calc.DailyTotal{}
	}
	if alerts == nil {
		alerts = []calc.Alert{}
	}

	breakdownOut := make([]gin.H, 0, len(breakdown))
	for _, day := range breakdown {
		breakdownOut = append(breakdownOut, gin.H{
			"date":      day.Date,
			"orders":    day.Orders,
			"totalKg":   kgFloat(day.TotalKg),
			"totalCost": money(day.TotalCost),
			"exceeded":  day.Exceeded,
		})
	}

	response := gin.H{
		"success": true,
		"week": gin.H{
			"start": window.Start.Format("2006-01-02"),
			"end":   window.End.Format("2006-01-02"),
		},
		"budget": budgetOut,
		"weekly": gin.H{
			"orderCount": weekly.OrderCount,
			"totalKg":    kgFloat(weekly.TotalKg),
			"totalCost":  money(weekly.TotalCost),
		},
		"dailyBreakdown": breakdownOut,
		"alerts":         alerts,
	}

	if jsonData, err := json.Marshal(response); err == nil {
		if err := h.redis.Set(ctx, cacheKey, jsonData, h.cacheTTL).Err(); err != nil {
			h.logger.Warn("failed to cache dashboard summary", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, response)
}
