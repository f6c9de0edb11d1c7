package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"shallowfind/internal/models"
	"shallowfind/internal/testutil"
)

func TestCheckAssetAllocation(t *testing.T) {
	t.Run("valid_sum", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		scenario := testutil.CreateTestScenario(t, db, user.ID)
		invType := testutil.CreateTestInvestmentType(t, db, scenario.ID)
		inv1 := testutil.CreateTestInvestment(t, db, scenario.ID, invType.ID, models.TaxStatusNonRetirement)
		inv2 := testutil.CreateTestInvestment(t, db, scenario.ID, invType.ID, models.TaxStatusNonRetirement)

		allocation := models.AllocationMap{
			inv1.ID: decimal.NewFromInt(60),
			inv2.ID: decimal.NewFromInt(40),
		}
		testutil.AssertNoError(t, checkAssetAllocation(db, scenario.ID, allocation, nil))
	})

	t.Run("sum_within_tolerance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		scenario := testutil.CreateTestScenario(t, db, user.ID)
		invType := testutil.CreateTestInvestmentType(t, db, scenario.ID)
		inv1 := testutil.CreateTestInvestment(t, db, scenario.ID, invType.ID, models.TaxStatusNonRetirement)
		inv2 := testutil.CreateTestInvestment(t, db, scenario.ID, invType.ID, models.TaxStatusNonRetirement)

		allocation := models.AllocationMap{
			inv1.ID: decimal.NewFromFloat(33.335),
			inv2.ID: decimal.NewFromFloat(66.67),
		}
		testutil.AssertNoError(t, checkAssetAllocation(db, scenario.ID, allocation, nil))
	})

	t.Run("empty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		scenario := testutil.CreateTestScenario(t, db, user.ID)

		err := checkAssetAllocation(db, scenario.ID, models.AllocationMap{}, nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("sum_not_100", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		scenario := testutil.CreateTestScenario(t, db, user.ID)
		invType := testutil.CreateTestInvestmentType(t, db, scenario.ID)
		inv := testutil.CreateTestInvestment(t, db, scenario.ID, invType.ID, models.TaxStatusNonRetirement)

		allocation := models.AllocationMap{inv.ID: decimal.NewFromInt(90)}
		err := checkAssetAllocation(db, scenario.ID, allocation, nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("unknown_investment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		scenario := testutil.CreateTestScenario(t, db, user.ID)

		allocation := models.AllocationMap{
			"11111111-1111-7111-8111-111111111111": decimal.NewFromInt(100),
		}
		err := checkAssetAllocation(db, scenario.ID, allocation, nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("investment_from_other_scenario", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		scenario := testutil.CreateTestScenario(t, db, user.ID)
		other := testutil.CreateTestScenario(t, db, user.ID)
		otherType := testutil.CreateTestInvestmentType(t, db, other.ID)
		foreign := testutil.CreateTestInvestment(t, db, other.ID, otherType.ID, models.TaxStatusNonRetirement)

		allocation := models.AllocationMap{foreign.ID: decimal.NewFromInt(100)}
		err := checkAssetAllocation(db, scenario.ID, allocation, nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("tax_status_mismatch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		scenario := testutil.CreateTestScenario(t, db, user.ID)
		invType := testutil.CreateTestInvestmentType(t, db, scenario.ID)
		inv := testutil.CreateTestInvestment(t, db, scenario.ID, invType.ID, models.TaxStatusNonRetirement)

		allocation := models.AllocationMap{inv.ID: decimal.NewFromInt(100)}
		status := models.TaxStatusPreTaxRetirement
		err := checkAssetAllocation(db, scenario.ID, allocation, &status)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("tax_status_match", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		scenario := testutil.CreateTestScenario(t, db, user.ID)
		invType := testutil.CreateTestInvestmentType(t, db, scenario.ID)
		inv := testutil.CreateTestInvestment(t, db, scenario.ID, invType.ID, models.TaxStatusPreTaxRetirement)

		allocation := models.AllocationMap{inv.ID: decimal.NewFromInt(100)}
		status := models.TaxStatusPreTaxRetirement
		testutil.AssertNoError(t, checkAssetAllocation(db, scenario.ID, allocation, &status))
	})
}

func TestCheckGlidePath(t *testing.T) {
	id1 := "11111111-1111-7111-8111-111111111111"
	id2 := "22222222-2222-7222-8222-222222222222"

	t.Run("same_key_sets", func(t *testing.T) {
		initial := models.AllocationMap{id1: decimal.NewFromInt(80), id2: decimal.NewFromInt(20)}
		final := models.AllocationMap{id1: decimal.NewFromInt(40), id2: decimal.NewFromInt(60)}
		testutil.AssertNoError(t, checkGlidePath(initial, final))
	})

	t.Run("missing_final", func(t *testing.T) {
		initial := models.AllocationMap{id1: decimal.NewFromInt(100)}
		err := checkGlidePath(initial, nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("different_key_sets", func(t *testing.T) {
		initial := models.AllocationMap{id1: decimal.NewFromInt(100)}
		final := models.AllocationMap{id2: decimal.NewFromInt(100)}
		err := checkGlidePath(initial, final)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("subset_key_sets", func(t *testing.T) {
		initial := models.AllocationMap{id1: decimal.NewFromInt(80), id2: decimal.NewFromInt(20)}
		final := models.AllocationMap{id1: decimal.NewFromInt(100)}
		err := checkGlidePath(initial, final)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})
}
