package models

// StrategyType determines what kind of entity IDs a strategy's ordering holds:
// investment IDs for spending/rmd, event series IDs for expense_withdrawal
// and roth_conversion.
type StrategyType string

const (
	StrategySpending          StrategyType = "spending"
	StrategyExpenseWithdrawal StrategyType = "expense_withdrawal"
	StrategyRMD               StrategyType = "rmd"
	StrategyRothConversion    StrategyType = "roth_conversion"
)

// OrdersInvestments reports whether the strategy type orders investment IDs
// (as opposed to event series IDs).
func (t StrategyType) OrdersInvestments() bool {
	return t == StrategySpending || t == StrategyRMD
}

// Strategy is an ordered priority list of entity IDs used by the simulator
// for withdrawals and conversions.
type Strategy struct {
	Base
	ScenarioID   string         `gorm:"type:uuid;not null;index" json:"scenario_id"`
	StrategyType StrategyType   `gorm:"size:30;not null" json:"strategy_type"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Description  string         `gorm:"size:1000" json:"description,omitempty"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	Ordering     []string       `gorm:"serializer:json" json:"ordering"`
	Settings     map[string]any `gorm:"serializer:json" json:"settings,omitempty"`
}
