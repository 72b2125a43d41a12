package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"manok-system/internal/calc"
	"manok-system/internal/database/models"
)

type SupplyHandler struct {
	db       *gorm.DB
	redis    *redis.Client
	logger   *zap.Logger
	cacheTTL time.Duration
}

func NewSupplyHandler(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger, cacheTTL time.Duration) *SupplyHandler {
	return &SupplyHandler{
		db:       db,
		redis:    redisClient,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

type supplyView struct {
	ID              int64  `json:"id"`
	Type            string `json:"type"`
	LastRefill      string `json:"lastRefill"`
	NextRefillDue   string `json:"nextRefillDue"`
	CostPerRefill   string `json:"costPerRefill"`
	RefillFrequency int32  `json:"refillFrequency"`
	DaysUntilDue    int    `json:"daysUntilDue"`
	Status          string `json:"status"`
	Message         string `json:"message"`
}

func supplyToView(supply models.Supply, now time.Time) supplyView {
	state := calc.SupplyStatus(supply, now)
	return supplyView{
		ID:              supply.ID,
		Type:            supply.Type,
		LastRefill:      supply.LastRefill.UTC().Format("2006-01-02"),
		NextRefillDue:   supply.NextRefillDue.UTC().Format("2006-01-02"),
		CostPerRefill:   money(supply.CostPerRefill),
		RefillFrequency: supply.RefillFrequency,
		DaysUntilDue:    state.DaysUntilDue,
		Status:          state.Status,
		Message:         state.Message,
	}
}

// ListSupplies returns both supplies with their refill status, cached for a
// short window since the dashboard polls this endpoint.
func (h *SupplyHandler) ListSupplies(c *gin.Context) {
	ctx := c.Request.Context()

	val, err := h.redis.Get(ctx, SUPPLIES_LIST_CACHE_KEY).Result()
	if err == nil {
		var cached []supplyView
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			c.JSON(http.StatusOK, gin.H{
				"success":  true,
				"supplies": cached,
			})
			return
		}
	} else if err != redis.Nil {
		h.logger.Warn("redis error on GET, falling back to DB", zap.Error(err))
	}

	var supplies []models.Supply
	if err := h.db.WithContext(ctx).Order("type ASC").Find(&supplies).Error; err != nil {
		h.logger.Error("failed to list supplies", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to fetch supplies")
		return
	}

	now := time.Now().UTC()
	out := make([]supplyView, 0, len(supplies))
	for _, supply := range supplies {
		out = append(out, supplyToView(supply, now))
	}

	if jsonData, err := json.Marshal(out); err == nil {
		if err := h.redis.Set(ctx, SUPPLIES_LIST_CACHE_KEY, jsonData, h.cacheTTL).Err(); err != nil {
			h.logger.Warn("failed to cache supplies list", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"supplies": out,
	})
}

type refillSupplyRequest struct {
	RefillDate string `json:"refillDate" binding:"required"`
}

// RefillSupply records a refill: lastRefill moves to the given date and
// nextRefillDue advances by the supply's refill frequency. Future refill
// dates are accepted as-is.
func (h *SupplyHandler) RefillSupply(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid supply ID")
		return
	}

	var req refillSupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input data")
		return
	}

	refillDate, err := parseDate(req.RefillDate)
	if err != nil {
		respondValidationError(c, &calc.ValidationError{Violations: []calc.FieldViolation{
			{Field: "refillDate", Message: "date must be YYYY-MM-DD format"},
		}})
		return
	}

	var supply models.Supply
	err = h.db.WithContext(c.Request.Context()).First(&supply, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Supply not found")
			return
		}
		h.logger.Error("failed to load supply", zap.Error(err), zap.Int64("id", id))
		respondError(c, http.StatusInternalServerError, "Failed to refill supply")
		return
	}

	supply.LastRefill = refillDate
	supply.NextRefillDue = calc.NextRefillDate(refillDate, supply.RefillFrequency)
	supply.Status = models.SupplyStatusOK

	if err := h.db.WithContext(c.Request.Context()).Save(&supply).Error; err != nil {
		h.logger.Error("failed to update supply", zap.Error(err), zap.Int64("id", id))
		respondError(c, http.StatusInternalServerError, "Failed to refill supply")
		return
	}

	invalidateCaches(c.Request.Context(), h.redis, h.logger)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": supply.Type + " marked as refilled",
		"supply": gin.H{
			"id":            supply.ID,
			"type":          supply.Type,
			"lastRefill":    supply.LastRefill.UTC().Format("2006-01-02"),
			"nextRefillDue": supply.NextRefillDue.UTC().Format("2006-01-02"),
			"status":        supply.Status,
		},
	})
}

// InitializeSupplies seeds the two tracked supplies with default costs and a
// weekly cadence. Conflicts if any supply row already exists.
func (h *SupplyHandler) InitializeSupplies(c *gin.Context) {
	ctx := c.Request.Context()

	var count int64
	if err := h.db.WithContext(ctx).Model(&models.Supply{}).Count(&count).Error; err != nil {
		h.logger.Error("failed to count supplies", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to initialize supplies")
		return
	}
	if count > 0 {
		respondError(c, http.StatusConflict, "Supplies already initialized")
		return
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	defaultCost := decimal.NewFromInt(1400)

	supplies := []models.Supply{
		{
			Type:            models.SupplyTypeSauce,
			LastRefill:      today,
			NextRefillDue:   calc.NextRefillDate(today, 7),
			CostPerRefill:   defaultCost,
			RefillFrequency: 7,
			Status:          models.SupplyStatusOK,
		},
		{
			Type:            models.SupplyTypeSeasoning,
			LastRefill:      today,
			NextRefillDue:   calc.NextRefillDate(today, 7),
			CostPerRefill:   defaultCost,
			RefillFrequency: 7,
			Status:          models.SupplyStatusOK,
		},
	}
	if err := h.db.WithContext(ctx).Create(&supplies).Error; err != nil {
		h.logger.Error("failed to create supplies", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to initialize supplies")
		return
	}

	invalidateCaches(ctx, h.redis, h.logger)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Supplies initialized successfully",
	})
}
