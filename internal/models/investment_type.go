package models

import "github.com/shopspring/decimal"

// InvestmentTaxability describes how returns on an investment type are taxed.
type InvestmentTaxability string

const (
	TaxabilityTaxable   InvestmentTaxability = "taxable"
	TaxabilityTaxExempt InvestmentTaxability = "tax_exempt"
)

// InvestmentType describes an asset class available within a scenario.
// Exactly one type per scenario must be marked as cash, and a cash type
// must not be tax-exempt; both rules are enforced over the scenario's full
// type list, not per row.
type InvestmentType struct {
	Base
	ScenarioID           string               `gorm:"type:uuid;not null;index" json:"scenario_id"`
	Name                 string               `gorm:"size:255;not null" json:"name"`
	Description          string               `gorm:"size:1000" json:"description,omitempty"`
	ExpectedAnnualReturn Distribution         `gorm:"serializer:json" json:"expected_annual_return"`
	ExpenseRatio         decimal.Decimal      `gorm:"type:numeric(5,4);not null;default:0" json:"expense_ratio"`
	ExpectedAnnualIncome Distribution         `gorm:"serializer:json" json:"expected_annual_income"`
	Taxability           InvestmentTaxability `gorm:"size:20;not null;default:'taxable'" json:"taxability"`
	IsCash               bool                 `gorm:"default:false" json:"is_cash"`
}
