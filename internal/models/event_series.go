package models

import "github.com/shopspring/decimal"

// EventSeriesType is the closed set of event kinds.
type EventSeriesType string

const (
	EventTypeIncome    EventSeriesType = "income"
	EventTypeExpense   EventSeriesType = "expense"
	EventTypeInvest    EventSeriesType = "invest"
	EventTypeRebalance EventSeriesType = "rebalance"
)

// Start timing modes for an event series.
const (
	StartTimingSameYear     = "same_year"
	StartTimingYearAfter    = "year_after"
	StartTimingEventSeries  = "event_series"
	StartTimingDistribution = "distribution"
)

// EventSeries is a scenario-scoped financial event. The row holds the common
// envelope (timing, ordering, active flag) plus the payload fields for its
// type; payload fields of other types stay null.
//
// ReferenceEventSeriesID is a non-owning graph edge to another event series
// in the same scenario. The reference chain must stay acyclic.
type EventSeries struct {
	Base
	ScenarioID  string          `gorm:"type:uuid;not null;index" json:"scenario_id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"size:1000" json:"description,omitempty"`
	EventType   EventSeriesType `gorm:"size:20;not null;index" json:"type"`

	// Timing
	StartYear              *Distribution `gorm:"serializer:json" json:"start_year,omitempty"`
	Duration               *Distribution `gorm:"serializer:json" json:"duration,omitempty"`
	StartTimingType        string        `gorm:"size:50" json:"start_timing_type,omitempty"`
	ReferenceEventSeriesID *string       `gorm:"type:uuid;index" json:"reference_event_series_id,omitempty"`

	IsActive   bool `gorm:"default:true" json:"is_active"`
	OrderIndex int  `gorm:"not null;default:0" json:"order_index"`

	// Income/expense payload
	InitialAmount     *decimal.Decimal `gorm:"type:numeric(18,2)" json:"initial_amount,omitempty"`
	AnnualChange      *Distribution    `gorm:"serializer:json" json:"annual_change,omitempty"`
	InflationAdjusted bool             `gorm:"default:false" json:"inflation_adjusted"`
	UserPercentage    *decimal.Decimal `gorm:"type:numeric(5,2)" json:"user_percentage,omitempty"`
	IsSocialSecurity  bool             `gorm:"default:false" json:"is_social_security"`
	IsDiscretionary   bool             `gorm:"default:false" json:"is_discretionary"`

	// Invest/rebalance payload
	AssetAllocation   AllocationMap     `gorm:"serializer:json" json:"asset_allocation,omitempty"`
	IsGlidePath       bool              `gorm:"default:false" json:"is_glide_path"`
	InitialAllocation AllocationMap     `gorm:"serializer:json" json:"initial_allocation,omitempty"`
	FinalAllocation   AllocationMap     `gorm:"serializer:json" json:"final_allocation,omitempty"`
	MaximumCash       *decimal.Decimal  `gorm:"type:numeric(18,2)" json:"maximum_cash,omitempty"`
	TargetTaxStatus   *AccountTaxStatus `gorm:"size:30" json:"target_tax_status,omitempty"`
}
