// Package handlers wires the HTTP surface to the calc engine: each handler
// validates and loads input, hands plain records to the engine, persists the
// result, and serializes plain data back out. Money fields are serialized as
// 2-decimal strings.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"manok-system/internal/calc"
	"manok-system/internal/database/models"
)

const (
	DASHBOARD_CACHE_PREFIX  = "dashboard:weekly:"
	SUPPLIES_LIST_CACHE_KEY = "supplies:list"
)

// --- Helpers ---

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func kgFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// parseDate accepts YYYY-MM-DD or RFC3339 and normalizes to UTC.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   msg,
	})
}

func respondValidationError(c *gin.Context, verr *calc.ValidationError) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "Invalid input data",
		"details": verr.Violations,
	})
}

// handleCalcError maps engine errors onto HTTP responses.
func handleCalcError(c *gin.Context, err error) {
	var verr *calc.ValidationError
	switch {
	case errors.As(err, &verr):
		respondValidationError(c, verr)
	case errors.Is(err, calc.ErrNoActiveBudget):
		respondError(c, http.StatusBadRequest, "No active budget found. Please create a budget first.")
	default:
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}

// activeBudget loads the budget with status=active, newest first, with its
// orders and their costs. More than one active row is a data-integrity fault:
// the create path demotes old budgets in the same transaction that inserts
// the new one, so if it happens anyway we log a warning and keep the newest.
func activeBudget(db *gorm.DB, logger *zap.Logger) (*models.Budget, error) {
	var budgets []models.Budget
	err := db.Preload("Orders.Cost").
		Where("status = ?", models.BudgetStatusActive).
		Order("created_at DESC").
		Find(&budgets).Error
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return nil, nil
	}
	if len(budgets) > 1 {
		logger.Warn("multiple active budgets found, using the most recent",
			zap.Int("count", len(budgets)),
			zap.Int64("picked_id", budgets[0].ID),
		)
	}
	return &budgets[0], nil
}

// activeBudgetForUpdate is activeBudget with a FOR UPDATE lock on the budget
// row. Postgres runs transactions at READ COMMITTED, so without the lock two
// concurrent order writes can read the same committed cost rows and record
// the same pre-order balance; the lock makes the second write wait and re-read.
func activeBudgetForUpdate(tx *gorm.DB, logger *zap.Logger) (*models.Budget, error) {
	return activeBudget(tx.Clauses(clause.Locking{Strength: "UPDATE"}), logger)
}

// invalidateCaches drops the read-through caches after any write that can
// change what the dashboard or the supply list shows. Best effort: a redis
// failure leaves stale keys behind until their TTL expires, so it is logged
// but never fails the request.
func invalidateCaches(ctx context.Context, rdb *redis.Client, logger *zap.Logger) {
	if err := rdb.Del(ctx, SUPPLIES_LIST_CACHE_KEY).Err(); err != nil {
		logger.Warn("failed to invalidate supplies cache", zap.Error(err))
	}

	iter := rdb.Scan(ctx, 0, DASHBOARD_CACHE_PREFIX+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := rdb.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Warn("failed to invalidate dashboard cache key",
				zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		logger.Warn("failed to scan dashboard cache keys", zap.Error(err))
	}
}
