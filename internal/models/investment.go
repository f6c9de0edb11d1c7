package models

import "github.com/shopspring/decimal"

// AccountTaxStatus describes the tax treatment of the account holding an investment.
type AccountTaxStatus string

const (
	TaxStatusNonRetirement      AccountTaxStatus = "non_retirement"
	TaxStatusPreTaxRetirement   AccountTaxStatus = "pre_tax_retirement"
	TaxStatusAfterTaxRetirement AccountTaxStatus = "after_tax_retirement"
)

// Investment is a holding of an investment type within a scenario. Its type
// must belong to the same scenario.
type Investment struct {
	Base
	ScenarioID       string           `gorm:"type:uuid;not null;index" json:"scenario_id"`
	InvestmentTypeID string           `gorm:"type:uuid;not null;index" json:"investment_type_id"`
	Name             string           `gorm:"size:255;not null" json:"name"`
	CurrentValue     decimal.Decimal  `gorm:"type:numeric(18,2);not null;default:0" json:"current_value"`
	TaxStatus        AccountTaxStatus `gorm:"size:30;not null" json:"tax_status"`
	CostBasis        decimal.Decimal  `gorm:"type:numeric(18,2);not null;default:0" json:"cost_basis"`
	OrderIndex       int              `gorm:"not null;default:0" json:"order_index"`
}
