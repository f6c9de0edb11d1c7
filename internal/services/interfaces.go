// Package services holds the business logic and graph-consistency rules for
// scenarios. Every mutation reads the current persisted state, runs the
// relevant validations, and only then writes.
package services

import (
	"github.com/shopspring/decimal"

	"shallowfind/internal/models"
	"shallowfind/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// ScenarioInput holds the writable fields of a scenario.
type ScenarioInput struct {
	Name                    string
	Description             string
	ScenarioType            models.ScenarioType
	UserBirthYear           *int
	SpouseBirthYear         *int
	UserLifeExpectancy      *models.Distribution
	SpouseLifeExpectancy    *models.Distribution
	FinancialGoal           decimal.Decimal
	StateOfResidence        string
	InflationAssumption     *models.Distribution
	AnnualContributionLimit decimal.Decimal
	RothOptimizerEnabled    bool
	RothOptimizerStartYear  *int
	RothOptimizerEndYear    *int
}

// ScenarioServicer defines the contract for scenario aggregate operations.
type ScenarioServicer interface {
	CreateScenario(ownerID string, input ScenarioInput) (*models.Scenario, error)
	GetUserScenarios(ownerID string, page pagination.PageRequest) (*pagination.PageResponse[models.Scenario], error)
	GetScenarioByID(ownerID, scenarioID string) (*models.Scenario, error)
	UpdateScenario(ownerID, scenarioID string, input ScenarioInput) (*models.Scenario, error)
	UpdateScenarioStatus(ownerID, scenarioID string, status models.ScenarioStatus) (*models.Scenario, error)
	DeleteScenario(ownerID, scenarioID string) error
}

// ShareServicer defines the contract for scenario sharing.
type ShareServicer interface {
	CreateShare(ownerID, scenarioID, sharedWithUserID string, permission models.SharePermission) (*models.ScenarioShare, error)
	GetScenarioShares(ownerID, scenarioID string) ([]models.ScenarioShare, error)
	RevokeShare(ownerID, shareID string) error
}

// InvestmentTypeInput holds the writable fields of an investment type.
type InvestmentTypeInput struct {
	Name                 string
	Description          string
	ExpectedAnnualReturn models.Distribution
	ExpenseRatio         decimal.Decimal
	ExpectedAnnualIncome models.Distribution
	Taxability           models.InvestmentTaxability
	IsCash               bool
}

// InvestmentTypeServicer defines the contract for investment type operations.
type InvestmentTypeServicer interface {
	CreateInvestmentType(ownerID, scenarioID string, input InvestmentTypeInput) (*models.InvestmentType, error)
	GetInvestmentTypeByID(ownerID, typeID string) (*models.InvestmentType, error)
	GetScenarioInvestmentTypes(ownerID, scenarioID string) ([]models.InvestmentType, error)
	UpdateInvestmentType(ownerID, typeID string, input InvestmentTypeInput) (*models.InvestmentType, error)
	DeleteInvestmentType(ownerID, typeID string) error
	ValidateScenarioInvestmentTypes(ownerID, scenarioID string) error
}

// InvestmentInput holds the writable fields of an investment.
type InvestmentInput struct {
	InvestmentTypeID string
	Name             string
	CurrentValue     decimal.Decimal
	TaxStatus        models.AccountTaxStatus
	CostBasis        decimal.Decimal
	OrderIndex       int
}

// InvestmentServicer defines the contract for investment operations.
type InvestmentServicer interface {
	CreateInvestment(ownerID, scenarioID string, input InvestmentInput) (*models.Investment, error)
	GetInvestmentByID(ownerID, investmentID string) (*models.Investment, error)
	GetScenarioInvestments(ownerID, scenarioID string) ([]models.Investment, error)
	UpdateInvestment(ownerID, investmentID string, input InvestmentInput) (*models.Investment, error)
	DeleteInvestment(ownerID, investmentID string) error
}

// EventSeriesInput is the common envelope shared by all event series types.
type EventSeriesInput struct {
	Name                   string
	Description            string
	StartYear              *models.Distribution
	Duration               *models.Distribution
	StartTimingType        string
	ReferenceEventSeriesID *string
	IsActive               bool
	OrderIndex             int
}

// IncomeEventInput holds the payload of an income event series.
type IncomeEventInput struct {
	EventSeriesInput
	InitialAmount     decimal.Decimal
	AnnualChange      *models.Distribution
	InflationAdjusted bool
	UserPercentage    *decimal.Decimal
	IsSocialSecurity  bool
}

// ExpenseEventInput holds the payload of an expense event series.
type ExpenseEventInput struct {
	EventSeriesInput
	InitialAmount     decimal.Decimal
	AnnualChange      *models.Distribution
	InflationAdjusted bool
	UserPercentage    *decimal.Decimal
	IsDiscretionary   bool
}

// InvestEventInput holds the payload of an invest event series.
type InvestEventInput struct {
	EventSeriesInput
	AssetAllocation   models.AllocationMap
	IsGlidePath       bool
	InitialAllocation models.AllocationMap
	FinalAllocation   models.AllocationMap
	MaximumCash       *decimal.Decimal
}

// RebalanceEventInput holds the payload of a rebalance event series.
type RebalanceEventInput struct {
	EventSeriesInput
	AssetAllocation   models.AllocationMap
	IsGlidePath       bool
	InitialAllocation models.AllocationMap
	FinalAllocation   models.AllocationMap
	TargetTaxStatus   models.AccountTaxStatus
}

// EventSeriesServicer defines the contract for event series operations.
type EventSeriesServicer interface {
	CreateIncomeEvent(ownerID, scenarioID string, input IncomeEventInput) (*models.EventSeries, error)
	CreateExpenseEvent(ownerID, scenarioID string, input ExpenseEventInput) (*models.EventSeries, error)
	CreateInvestEvent(ownerID, scenarioID string, input InvestEventInput) (*models.EventSeries, error)
	CreateRebalanceEvent(ownerID, scenarioID string, input RebalanceEventInput) (*models.EventSeries, error)
	UpdateIncomeEvent(ownerID, eventID string, input IncomeEventInput) (*models.EventSeries, error)
	UpdateExpenseEvent(ownerID, eventID string, input ExpenseEventInput) (*models.EventSeries, error)
	UpdateInvestEvent(ownerID, eventID string, input InvestEventInput) (*models.EventSeries, error)
	UpdateRebalanceEvent(ownerID, eventID string, input RebalanceEventInput) (*models.EventSeries, error)
	GetEventSeriesByID(ownerID, eventID string) (*models.EventSeries, error)
	GetScenarioEventSeries(ownerID, scenarioID string, eventType *models.EventSeriesType) ([]models.EventSeries, error)
	DeleteEventSeries(ownerID, eventID string) error
}

// StrategyInput holds the writable fields of a strategy.
type StrategyInput struct {
	StrategyType models.StrategyType
	Name         string
	Description  string
	IsActive     bool
	Ordering     []string
	Settings     map[string]any
}

// StrategyServicer defines the contract for strategy operations.
type StrategyServicer interface {
	CreateStrategy(ownerID, scenarioID string, input StrategyInput) (*models.Strategy, error)
	GetStrategyByID(ownerID, strategyID string) (*models.Strategy, error)
	GetScenarioStrategies(ownerID, scenarioID string, strategyType *models.StrategyType) ([]models.Strategy, error)
	UpdateStrategy(ownerID, strategyID string, input StrategyInput) (*models.Strategy, error)
	DeleteStrategy(ownerID, strategyID string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
