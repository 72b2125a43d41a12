package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"manok-system/internal/calc"
	"manok-system/internal/database/models"
)

type BudgetHandler struct {
	db     *gorm.DB
	redis  *redis.Client
	logger *zap.Logger
}

func NewBudgetHandler(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *BudgetHandler {
	return &BudgetHandler{
		db:     db,
		redis:  redisClient,
		logger: logger,
	}
}

type createBudgetRequest struct {
	StartDate string  `json:"startDate" binding:"required"`
	Amount    float64 `json:"amount" binding:"required"`
	Notes     string  `json:"notes"`
}

// CreateBudget demotes every previously active budget to completed and
// inserts the new one as active, in a single transaction so the one-active
// invariant cannot be observed broken.
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req createBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input data")
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		verr := &calc.ValidationError{Violations: []calc.FieldViolation{
			{Field: "startDate", Message: "date must be YYYY-MM-DD format"},
		}}
		respondValidationError(c, verr)
		return
	}

	amount := decimal.NewFromFloat(req.Amount).Round(2)
	if err := calc.ValidateBudget(amount, req.Notes); err != nil {
		handleCalcError(c, err)
		return
	}

	budget := models.Budget{
		StartDate: startDate,
		Amount:    amount,
		Status:    models.BudgetStatusActive,
	}
	if req.Notes != "" {
		budget.Notes = &req.Notes
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Budget{}).
			Where("status = ?", models.BudgetStatusActive).
			Update("status", models.BudgetStatusCompleted).Error; err != nil {
			return err
		}
		return tx.Create(&budget).Error
	})
	if err != nil {
		h.logger.Error("failed to create budget", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to create budget")
		return
	}

	invalidateCaches(c.Request.Context(), h.redis, h.logger)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"budget": gin.H{
			"id":        budget.ID,
			"startDate": budget.StartDate.UTC().Format("2006-01-02"),
			"amount":    money(budget.Amount),
			"status":    budget.Status,
			"notes":     budget.Notes,
		},
	})
}

// ListBudgets returns every budget with its lifetime spend stats.
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	var budgets []models.Budget
	err := h.db.WithContext(c.Request.Context()).
		Preload("Orders.Cost").
		Order("start_date DESC").
		Find(&budgets).Error
	if err != nil {
		h.logger.Error("failed to list budgets", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to fetch budgets")
		return
	}

	out := make([]gin.H, 0, len(budgets))
	for _, budget := range budgets {
		spent := calc.BudgetSpent(budget.Orders)
		out = append(out, gin.H{
			"id":         budget.ID,
			"startDate":  budget.StartDate.UTC().Format("2006-01-02"),
			"amount":     money(budget.Amount),
			"status":     budget.Status,
			"notes":      budget.Notes,
			"orderCount": len(budget.Orders),
			"spent":      money(spent),
			"remaining":  money(budget.Amount.Sub(spent)),
			"percentage": calc.BudgetPercentage(budget.Amount, spent),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"budgets": out,
	})
}

// GetCurrentBudget returns the active budget with stats and its 5 most
// recent orders, or 404 when no budget is active.
func (h *BudgetHandler) GetCurrentBudget(c *gin.Context) {
	budget, err := activeBudget(h.db.WithContext(c.Request.Context()).
		Preload("Orders", func(db *gorm.DB) *gorm.DB {
			return db.Order("date DESC")
		}), h.logger)
	if err != nil {
		h.logger.Error("failed to load active budget", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to fetch current budget")
		return
	}
	if budget == nil {
		respondError(c, http.StatusNotFound, "No active budget found")
		return
	}

	spent := calc.BudgetSpent(budget.Orders)

	recent := budget.Orders
	if len(recent) > 5 {
		recent = recent[:5]
	}
	recentOut := make([]gin.H, 0, len(recent))
	for _, order := range recent {
		totalCost := decimal.Zero
		if order.Cost != nil {
			totalCost = order.Cost.TotalCost
		}
		recentOut = append(recentOut, gin.H{
			"id":        order.ID,
			"date":      order.Date.UTC().Format("2006-01-02"),
			"pieces":    order.Pieces,
			"totalKg":   kgFloat(order.TotalKg),
			"totalCost": money(totalCost),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"budget": gin.H{
			"id":           budget.ID,
			"startDate":    budget.StartDate.UTC().Format("2006-01-02"),
			"amount":       money(budget.Amount),
			"status":       budget.Status,
			"notes":        budget.Notes,
			"orderCount":   len(budget.Orders),
			"spent":        money(spent),
			"remaining":    money(budget.Amount.Sub(spent)),
			"percentage":   calc.BudgetPercentage(budget.Amount, spent),
			"recentOrders": recentOut,
		},
	})
}

// DeleteBudget removes a budget, but only while it owns no orders.
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid budget ID")
		return
	}

	var budget models.Budget
	err = h.db.WithContext(c.Request.Context()).Preload("Orders").First(&budget, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Budget not found")
			return
		}
		h.logger.Error("failed to load budget", zap.Error(err), zap.Int64("id", id))
		respondError(c, http.StatusInternalServerError, "Failed to delete budget")
		return
	}

	if len(budget.Orders) > 0 {
		respondError(c, http.StatusConflict,
			"Cannot delete budget with "+strconv.Itoa(len(budget.Orders))+" existing order(s). Delete orders first.")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&budget).Error; err != nil {
		h.logger.Error("failed to delete budget", zap.Error(err), zap.Int64("id", id))
		respondError(c, http.StatusInternalServerError, "Failed to delete budget")
		return
	}

	invalidateCaches(c.Request.Context(), h.redis, h.logger)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Budget deleted successfully",
	})
}
