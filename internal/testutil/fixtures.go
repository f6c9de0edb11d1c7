package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"shallowfind/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// FixedDistribution returns a fixed distribution with the given value.
func FixedDistribution(value float64) *models.Distribution {
	v := decimal.NewFromFloat(value)
	return &models.Distribution{Type: models.DistributionFixed, Value: &v}
}

// NormalDistribution returns a normal distribution with the given mean and stdev.
func NormalDistribution(mean, stdev float64) *models.Distribution {
	m := decimal.NewFromFloat(mean)
	s := decimal.NewFromFloat(stdev)
	return &models.Distribution{Type: models.DistributionNormal, Mean: &m, Stdev: &s}
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestScenario creates a draft individual scenario for the owner.
func CreateTestScenario(t *testing.T, db *gorm.DB, ownerID string) *models.Scenario {
	t.Helper()

	birthYear := 1980
	scenario := &models.Scenario{
		OwnerID:            ownerID,
		Name:               fmt.Sprintf("Test Scenario %d", nextID()),
		ScenarioType:       models.ScenarioTypeIndividual,
		Status:             models.ScenarioStatusDraft,
		UserBirthYear:      &birthYear,
		UserLifeExpectancy: FixedDistribution(85),
		FinancialGoal:      decimal.NewFromInt(1000000),
		StateOfResidence:   "NY",
	}
	if err := db.Create(scenario).Error; err != nil {
		t.Fatalf("failed to create test scenario: %v", err)
	}
	return scenario
}

// CreateTestInvestmentType creates a non-cash taxable investment type.
func CreateTestInvestmentType(t *testing.T, db *gorm.DB, scenarioID string) *models.InvestmentType {
	t.Helper()
	return createInvestmentType(t, db, scenarioID, false)
}

// CreateTestCashType creates the scenario's cash investment type.
func CreateTestCashType(t *testing.T, db *gorm.DB, scenarioID string) *models.InvestmentType {
	t.Helper()
	return createInvestmentType(t, db, scenarioID, true)
}

func createInvestmentType(t *testing.T, db *gorm.DB, scenarioID string, isCash bool) *models.InvestmentType {
	t.Helper()

	investmentType := &models.InvestmentType{
		ScenarioID:           scenarioID,
		Name:                 fmt.Sprintf("Test Type %d", nextID()),
		ExpectedAnnualReturn: *FixedDistribution(5),
		ExpenseRatio:         decimal.NewFromFloat(0.004),
		ExpectedAnnualIncome: *FixedDistribution(1),
		Taxability:           models.TaxabilityTaxable,
		IsCash:               isCash,
	}
	if err := db.Create(investmentType).Error; err != nil {
		t.Fatalf("failed to create test investment type: %v", err)
	}
	return investmentType
}

// CreateTestInvestment creates an investment with the given tax status.
func CreateTestInvestment(t *testing.T, db *gorm.DB, scenarioID, typeID string, taxStatus models.AccountTaxStatus) *models.Investment {
	t.Helper()

	investment := &models.Investment{
		ScenarioID:       scenarioID,
		InvestmentTypeID: typeID,
		Name:             fmt.Sprintf("Test Investment %d", nextID()),
		CurrentValue:     decimal.NewFromInt(10000),
		TaxStatus:        taxStatus,
		CostBasis:        decimal.NewFromInt(8000),
	}
	if err := db.Create(investment).Error; err != nil {
		t.Fatalf("failed to create test investment: %v", err)
	}
	return investment
}

// CreateTestIncomeEvent creates an active income event series.
func CreateTestIncomeEvent(t *testing.T, db *gorm.DB, scenarioID string) *models.EventSeries {
	t.Helper()

	amount := decimal.NewFromInt(50000)
	event := &models.EventSeries{
		ScenarioID:      scenarioID,
		Name:            fmt.Sprintf("Test Income %d", nextID()),
		EventType:       models.EventTypeIncome,
		StartYear:       FixedDistribution(2030),
		Duration:        FixedDistribution(10),
		StartTimingType: models.StartTimingDistribution,
		IsActive:        true,
		InitialAmount:   &amount,
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to create test income event: %v", err)
	}
	return event
}

// CreateTestInvestEvent creates an invest event allocating 100% to one investment.
func CreateTestInvestEvent(t *testing.T, db *gorm.DB, scenarioID, investmentID string, active bool) *models.EventSeries {
	t.Helper()

	event := &models.EventSeries{
		ScenarioID: scenarioID,
		Name:       fmt.Sprintf("Test Invest %d", nextID()),
		EventType:  models.EventTypeInvest,
		StartYear:  FixedDistribution(2030),
		Duration:   FixedDistribution(10),
		IsActive:   active,
		AssetAllocation: models.AllocationMap{
			investmentID: decimal.NewFromInt(100),
		},
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to create test invest event: %v", err)
	}
	return event
}

// CreateTestStrategy creates a spending strategy over the given investment ids.
func CreateTestStrategy(t *testing.T, db *gorm.DB, scenarioID string, ordering []string) *models.Strategy {
	t.Helper()

	strategy := &models.Strategy{
		ScenarioID:   scenarioID,
		StrategyType: models.StrategySpending,
		Name:         fmt.Sprintf("Test Strategy %d", nextID()),
		IsActive:     true,
		Ordering:     ordering,
	}
	if err := db.Create(strategy).Error; err != nil {
		t.Fatalf("failed to create test strategy: %v", err)
	}
	return strategy
}
