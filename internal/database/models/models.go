package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	BudgetStatusActive    = "active"
	BudgetStatusCompleted = "completed"

	BagTypeFullBag = "full_bag"
	BagTypeManual  = "manual"

	SupplyTypeSauce     = "sauce"
	SupplyTypeSeasoning = "seasoning"

	SupplyStatusOK      = "ok"
	SupplyStatusDueSoon = "due_soon"
	SupplyStatusOverdue = "overdue"
)

type Budget struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	StartDate time.Time       `gorm:"not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status    string          `gorm:"type:varchar(16);not null;default:'active';index"`
	Notes     *string         `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Orders []Order `gorm:"foreignKey:BudgetID"`
}

type Order struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	BudgetID  int64           `gorm:"not null;index"`
	Date      time.Time       `gorm:"not null;index"`
	Pieces    int32           `gorm:"not null"`
	ChopCount int32           `gorm:"not null"`
	BuoCount  int32           `gorm:"not null"`
	TotalKg   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time

	Budget *Budget     `gorm:"foreignKey:BudgetID"`
	Bags   []BagWeight `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Cost   *Cost       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type BagWeight struct {
	ID       int64           `gorm:"primaryKey;autoIncrement"`
	OrderID  int64           `gorm:"not null;index"`
	WeightKg decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	BagType  string          `gorm:"type:varchar(16);not null"`
}

// Cost is written once in the same transaction as its Order and never updated.
type Cost struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	OrderID        int64           `gorm:"uniqueIndex;not null"`
	PricePerKg     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ChickenCost    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SauceDaily     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SeasoningDaily decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalCost      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	BudgetBefore   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	BudgetAfter    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Exceeded       bool            `gorm:"not null"`
	ExceededBy     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt      time.Time
}

type Supply struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	Type            string          `gorm:"type:varchar(16);uniqueIndex;not null"`
	LastRefill      time.Time       `gorm:"not null"`
	NextRefillDue   time.Time       `gorm:"not null"`
	CostPerRefill   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	RefillFrequency int32           `gorm:"not null;default:7"`
	Status          string          `gorm:"type:varchar(16);not null;default:'ok'"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func MigrateDB(db *gorm.DB) error {
	for _, model := range []interface{}{
		&Budget{},
		&Order{},
		&BagWeight{},
		&Cost{},
		&Supply{},
	} {
		if err := db.AutoMigrate(model); err != nil {
			return err
		}
	}
	return nil
}
