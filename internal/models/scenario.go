package models

import "github.com/shopspring/decimal"

// ScenarioType distinguishes single-filer and joint scenarios.
type ScenarioType string

const (
	ScenarioTypeIndividual    ScenarioType = "individual"
	ScenarioTypeMarriedCouple ScenarioType = "married_couple"
)

// ScenarioStatus tracks the scenario lifecycle. Transitions only move
// forward: draft -> active -> archived.
type ScenarioStatus string

const (
	ScenarioStatusDraft    ScenarioStatus = "draft"
	ScenarioStatusActive   ScenarioStatus = "active"
	ScenarioStatusArchived ScenarioStatus = "archived"
)

// Scenario is the aggregate root of the planning graph. Every other entity
// belongs to exactly one scenario and is reachable only through it and its
// owner; children store scenario_id rather than navigation pointers.
type Scenario struct {
	Base
	OwnerID      string         `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Description  string         `gorm:"size:1000" json:"description,omitempty"`
	ScenarioType ScenarioType   `gorm:"size:20;not null;default:'individual'" json:"scenario_type"`
	Status       ScenarioStatus `gorm:"size:20;not null;default:'draft'" json:"status"`

	// Personal information
	UserBirthYear        *int          `json:"user_birth_year,omitempty"`
	SpouseBirthYear      *int          `json:"spouse_birth_year,omitempty"`
	UserLifeExpectancy   *Distribution `gorm:"serializer:json" json:"user_life_expectancy,omitempty"`
	SpouseLifeExpectancy *Distribution `gorm:"serializer:json" json:"spouse_life_expectancy,omitempty"`

	// Financial settings
	FinancialGoal           decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"financial_goal"`
	StateOfResidence        string          `gorm:"size:2" json:"state_of_residence,omitempty"`
	InflationAssumption     *Distribution   `gorm:"serializer:json" json:"inflation_assumption,omitempty"`
	AnnualContributionLimit decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"annual_contribution_limit"`

	// Roth conversion optimizer window
	RothOptimizerEnabled   bool `gorm:"default:false" json:"roth_optimizer_enabled"`
	RothOptimizerStartYear *int `json:"roth_optimizer_start_year,omitempty"`
	RothOptimizerEndYear   *int `json:"roth_optimizer_end_year,omitempty"`
}
