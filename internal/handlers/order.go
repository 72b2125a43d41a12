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

type OrderHandler struct {
	db     *gorm.DB
	redis  *redis.Client
	logger *zap.Logger
}

func NewOrderHandler(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		db:     db,
		redis:  redisClient,
		logger: logger,
	}
}

type bagRequest struct {
	WeightKg float64 `json:"weightKg"`
	BagType  string  `json:"bagType"`
}

type createOrderRequest struct {
	Date       string       `json:"date" binding:"required"`
	Pieces     int32        `json:"pieces"`
	ChopCount  int32        `json:"chopCount"`
	BuoCount   int32        `json:"buoCount"`
	PricePerKg float64      `json:"pricePerKg"`
	Bags       []bagRequest `json:"bags"`
}

// CreateOrder validates the delivery, computes its cost against the active
// budget and persists Order, BagWeights and Cost as one atomic write. The
// budget row is read FOR UPDATE inside that transaction, so a concurrent
// order blocks until this one commits and then sees its cost row; two orders
// cannot record the same pre-order balance.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input data")
		return
	}

	orderDate, err := parseDate(req.Date)
	if err != nil {
		respondValidationError(c, &calc.ValidationError{Violations: []calc.FieldViolation{
			{Field: "date", Message: "date must be YYYY-MM-DD format"},
		}})
		return
	}

	bags := make([]calc.BagInput, 0, len(req.Bags))
	for _, bag := range req.Bags {
		bags = append(bags, calc.BagInput{
			WeightKg: decimal.NewFromFloat(bag.WeightKg),
			BagType:  bag.BagType,
		})
	}

	input := calc.OrderInput{
		Pieces:     req.Pieces,
		ChopCount:  req.ChopCount,
		BuoCount:   req.BuoCount,
		PricePerKg: decimal.NewFromFloat(req.PricePerKg),
		Bags:       bags,
	}
	if err := calc.ValidateOrder(input); err != nil {
		handleCalcError(c, err)
		return
	}

	totalKg, err := calc.TotalWeight(bags)
	if err != nil {
		handleCalcError(c, err)
		return
	}
	costs := calc.ComputeCost(totalKg, input.PricePerKg, calc.DefaultSauceDaily, calc.DefaultSeasoningDaily)

	var (
		order        models.Order
		remaining    decimal.Decimal
		spent        decimal.Decimal
		budgetAmount decimal.Decimal
		exceedCheck  calc.ExceedCheck
	)

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		budget, err := activeBudgetForUpdate(tx, h.logger)
		if err != nil {
			return err
		}
		if budget == nil {
			return calc.ErrNoActiveBudget
		}

		spent = calc.BudgetSpent(budget.Orders)
		remaining = budget.Amount.Sub(spent)
		budgetAmount = budget.Amount
		exceedCheck = calc.CheckExceed(remaining, costs.TotalCost)

		order = models.Order{
			BudgetID:  budget.ID,
			Date:      orderDate,
			Pieces:    req.Pieces,
			ChopCount: req.ChopCount,
			BuoCount:  req.BuoCount,
			TotalKg:   totalKg,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		bagRows := make([]models.BagWeight, 0, len(bags))
		for _, bag := range bags {
			bagRows = append(bagRows, models.BagWeight{
				OrderID:  order.ID,
				WeightKg: bag.WeightKg,
				BagType:  bag.BagType,
			})
		}
		if err := tx.Create(&bagRows).Error; err != nil {
			return err
		}

		cost := models.Cost{
			OrderID:        order.ID,
			PricePerKg:     input.PricePerKg.Round(2),
			ChickenCost:    costs.ChickenCost,
			SauceDaily:     costs.SauceDaily,
			SeasoningDaily: costs.SeasoningDaily,
			TotalCost:      costs.TotalCost,
			BudgetBefore:   remaining.Round(2),
			BudgetAfter:    remaining.Sub(costs.TotalCost).Round(2),
			Exceeded:       exceedCheck.Exceeded,
			ExceededBy:     exceedCheck.ExceededBy,
		}
		return tx.Create(&cost).Error
	})
	if err != nil {
		if errors.Is(err, calc.ErrNoActiveBudget) {
			handleCalcError(c, err)
			return
		}
		h.logger.Error("failed to create order", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to create order")
		return
	}

	invalidateCaches(c.Request.Context(), h.redis, h.logger)

	budgetStatus := "ok"
	if exceedCheck.Exceeded {
		budgetStatus = "exceeded"
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"order": gin.H{
			"id":      order.ID,
			"date":    order.Date.UTC().Format("2006-01-02"),
			"pieces":  order.Pieces,
			"totalKg": kgFloat(order.TotalKg),
			"cost": gin.H{
				"chickenCost":    money(costs.ChickenCost),
				"sauceDaily":     money(costs.SauceDaily),
				"seasoningDaily": money(costs.SeasoningDaily),
				"totalCost":      money(costs.TotalCost),
			},
		},
		"budget": gin.H{
			"allocated":  money(budgetAmount),
			"spent":      money(spent.Add(costs.TotalCost)),
			"remaining":  money(remaining.Sub(costs.TotalCost)),
			"status":     budgetStatus,
			"exceededBy": money(exceedCheck.ExceededBy),
		},
	})
}

// ListOrders returns orders newest-first with optional date range filtering
// and limit/offset pagination.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	limit := 20
	offset := 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}

	query := h.db.WithContext(c.Request.Context()).Model(&models.Order{})
	if s := c.Query("startDate"); s != "" {
		startDate, err := parseDate(s)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid startDate")
			return
		}
		query = query.Where("date >= ?", startDate)
	}
	if s := c.Query("endDate"); s != "" {
		endDate, err := parseDate(s)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid endDate")
			return
		}
		query = query.Where("date <= ?", endDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		h.logger.Error("failed to count orders", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	var orders []models.Order
	err := query.Preload("Cost").Preload("Bags").
		Order("date DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	if err != nil {
		h.logger.Error("failed to list orders", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	out := make([]gin.H, 0, len(orders))
	for _, order := range orders {
		totalCost := decimal.Zero
		exceeded := false
		if order.Cost != nil {
			totalCost = order.Cost.TotalCost
			exceeded = order.Cost.Exceeded
		}
		out = append(out, gin.H{
			"id":        order.ID,
			"date":      order.Date.UTC().Format("2006-01-02"),
			"pieces":    order.Pieces,
			"chopCount": order.ChopCount,
			"buoCount":  order.BuoCount,
			"totalKg":   kgFloat(order.TotalKg),
			"totalCost": money(totalCost),
			"exceeded":  exceeded,
			"bagCount":  len(order.Bags),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orders":  out,
		"pagination": gin.H{
			"total":  total,
			"limit":  limit,
			"offset": offset,
		},
	})
}

// GetOrder returns one order with its bags, cost and owning budget.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var order models.Order
	err = h.db.WithContext(c.Request.Context()).
		Preload("Cost").Preload("Bags").Preload("Budget").
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Order not found")
			return
		}
		h.logger.Error("failed to load order", zap.Error(err), zap.Int64("id", id))
		respondError(c, http.StatusInternalServerError, "Failed to fetch order")
		return
	}

	bagsOut := make([]gin.H, 0, len(order.Bags))
	for _, bag := range order.Bags {
		bagsOut = append(bagsOut, gin.H{
			"id":       bag.ID,
			"weightKg": kgFloat(bag.WeightKg),
			"bagType":  bag.BagType,
		})
	}

	var costOut gin.H
	if order.Cost != nil {
		costOut = gin.H{
			"pricePerKg":     money(order.Cost.PricePerKg),
			"chickenCost":    money(order.Cost.ChickenCost),
			"sauceDaily":     money(order.Cost.SauceDaily),
			"seasoningDaily": money(order.Cost.SeasoningDaily),
			"totalCost":      money(order.Cost.TotalCost),
			"budgetBefore":   money(order.Cost.BudgetBefore),
			"budgetAfter":    money(order.Cost.BudgetAfter),
			"exceeded":       order.Cost.Exceeded,
			"exceededBy":     money(order.Cost.ExceededBy),
		}
	}

	var budgetOut gin.H
	if order.Budget != nil {
		budgetOut = gin.H{
			"id":        order.Budget.ID,
			"startDate": order.Budget.StartDate.UTC().Format("2006-01-02"),
			"amount":    money(order.Budget.Amount),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order": gin.H{
			"id":        order.ID,
			"date":      order.Date.UTC().Format("2006-01-02"),
			"pieces":    order.Pieces,
			"chopCount": order.ChopCount,
			"buoCount":  order.BuoCount,
			"totalKg":   kgFloat(order.TotalKg),
			"bags":      bagsOut,
			"cost":      costOut,
			"budget":    budgetOut,
			"createdAt": order.CreatedAt,
		},
	})
}

// DeleteOrder removes an order; bag and cost rows go with it.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var order models.Order
	err = h.db.WithContext(c.Request.Context()).First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Order not found")
			return
		}
		h.logger.Error("failed to load order", zap.Error(err), zap.Int64("id", id))
		respondError(c, http.StatusInternalServerError, "Failed to delete order")
		return
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.BagWeight{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.Cost{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if err != nil {
		h.logger.Error("failed to delete order", zap.Error(err), zap.Int64("id", id))
		respondError(c, http.StatusInternalServerError, "Failed to delete order")
		return
	}

	invalidateCaches(c.Request.Context(), h.redis, h.logger)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order deleted successfully",
	})
}
