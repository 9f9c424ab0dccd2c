package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePlanRequest création/mise à jour d'un plan par un SuperAdmin.
type CreatePlanRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"basePrice"`
	UserLimit   int             `json:"userLimit"`
	Discount    decimal.Decimal `json:"discount"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	Features    []string        `json:"features"`
	IsActive    *bool           `json:"isActive"`
}

// PlanResponse plan avec sa liste de fonctionnalités décodée et son prix TTC.
type PlanResponse struct {
	PlanID      string          `json:"planId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"basePrice"`
	UserLimit   int             `json:"userLimit"`
	Discount    decimal.Decimal `json:"discount"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	FinalPrice  decimal.Decimal `json:"finalPrice"`
	Features    []string        `json:"features"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
