package services

import (
	"testing"

	"shallowfind/internal/models"
	"shallowfind/internal/testutil"
)

func TestCreateStrategy(t *testing.T) {
	t.Run("spending_over_investments", func(t *testing.T) {
		ts := newTestSetup(t)
		defer ts.teardown(t)
		svc := NewStrategyService(ts.db)
		second := testutil.CreateTestInvestment(t, ts.db, ts.scenario.ID, ts.invType.ID, models.TaxStatusNonRetirement)

		strategy, err := svc.CreateStrategy(ts.user.ID, ts.scenario.ID, StrategyInput{
			StrategyType: models.StrategySpending,
			Name:         "Spend order",
			IsActive:     true,
			Ordering:     []string{ts.investment.ID, second.ID},
		})
		testutil.AssertNoError(t, err)
		if len(strategy.Ordering) != 2 {
			t.Fatalf("expected 2 ordering entries, got %d", len(strategy.Ordering))
		}
		if strategy.Ordering[0] != ts.investment.ID {
			t.Error("expected ordering preserved as given")
		}
	})

	t.Run("expense_withdrawal_over_event_series", func(t *testing.T) {
		ts := newTestSetup(t)
		defer ts.teardown(t)
		svc := NewStrategyService(ts.db)
		event := testutil.CreateTestIncomeEvent(t, ts.db, ts.scenario.ID)

		_, err := svc.CreateStrategy(ts.user.ID, ts.scenario.ID, StrategyInput{
			StrategyType: models.StrategyExpenseWithdrawal,
			Name:         "Withdrawal order",
			Ordering:     []string{event.ID},
		})
		testutil.AssertNoError(t, err)
	})

	t.Run("spending_rejects_event_series_ids", func(t *testing.T) {
		ts := newTestSetup(t)
		defer ts.teardown(t)
		svc := NewStrategyService(ts.db)
		event := testutil.CreateTestIncomeEvent(t, ts.db, ts.scenario.ID)

		_, err := svc.CreateStrategy(ts.user.ID, ts.scenario.ID, StrategyInput{
			StrategyType: models.StrategySpending,
			Name:         "Wrong kind",
			Ordering:     []string{event.ID},
		})
		testutil.AssertAppError(t, err, "ORDERING_REFERENCE_NOT_FOUND")
	})

	t.Run("empty_ordering", func(t *testing.T) {
		ts := newTestSetup(t)
		defer ts.teardown(t)
		svc := NewStrategyService(ts.db)

		_, err := svc.CreateStrategy(ts.user.ID, ts.scenario.ID, StrategyInput{
			StrategyType: models.StrategySpending,
			Name:         "Empty",
			Ordering:     []string{},
		})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("duplicate_ids", func(t *testing.T) {
		ts := newTestSetup(t)
		defer ts.teardown(t)
		svc := NewStrategyService(ts.db)

		_, err := svc.CreateStrategy(ts.user.ID, ts.scenario.ID, StrategyInput{
			StrategyType: models.StrategySpending,
			Name:         "Dup",
			Ordering:     []string{ts.investment.ID, ts.investment.ID},
		})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("unresolvable_id", func(t *testing.T) {
		ts := newTestSetup(t)
		defer ts.teardown(t)
		svc := NewStrategyService(ts.db)

		_, err := svc.CreateStrategy(ts.user.ID, ts.scenario.ID, StrategyInput{
			StrategyType: models.StrategyRMD,
			Name:         "Missing",
			Ordering:     []string{"44444444-4444-7444-8444-444444444444"},
		})
		testutil.AssertAppError(t, err, "ORDERING_REFERENCE_NOT_FOUND")
	})

	t.Run("id_from_other_scenario", func(t *testing.T) {
		ts := newTestSetup(t)
		defer ts.teardown(t)
		svc := NewStrategyService(ts.db)
		other := testutil.CreateTestScenario(t, ts.db, ts.user.ID)
		otherType := testutil.CreateTestInvestmentType(t, ts.db, other.ID)
		foreign := testutil.CreateTestInvestment(t, ts.db, other.ID, otherType.ID, models.TaxStatusNonRetirement)

		_, err := svc.CreateStrategy(ts.user.ID, ts.scenario.ID, StrategyInput{
			StrategyType: models.StrategySpending,
			Name:         "CrossScenario",
			Ordering:     []string{foreign.ID},
		})
		testutil.AssertAppError(t, err, "ORDERING_REFERENCE_NOT_FOUND")
	})
}

func TestUpdateStrategy(t *testing.T) {
	t.Run("type_fixed_at_creation", func(t *testing.T) {
		ts := newTestSetup(t)
		defer ts.teardown(t)
		svc := NewStrategyService(ts.db)
		strategy := testutil.CreateTestStrategy(t, ts.db, ts.scenario.ID, []string{ts.investment.ID})

		// Requesting a type change is ignored; the ordering is still resolved
		// against investments.
		updated, err := svc.UpdateStrategy(ts.user.ID, strategy.ID, StrategyInput{
			StrategyType: models.StrategyExpenseWithdrawal,
			Name:         "Renamed",
			Ordering:     []string{ts.investment.ID},
		})
		testutil.AssertNoError(t, err)
		if updated.StrategyType != models.StrategySpending {
			t.Errorf("expected type to stay spending, got %s", updated.StrategyType)
		}
	})
}

func TestGetScenarioStrategies(t *testing.T) {
	t.Run("filter_by_type", func(t *testing.T) {
		ts := newTestSetup(t)
		defer ts.teardown(t)
		svc := NewStrategyService(ts.db)
		event := testutil.CreateTestIncomeEvent(t, ts.db, ts.scenario.ID)
		testutil.CreateTestStrategy(t, ts.db, ts.scenario.ID, []string{ts.investment.ID})

		_, err := svc.CreateStrategy(ts.user.ID, ts.scenario.ID, StrategyInput{
			StrategyType: models.StrategyRothConversion,
			Name:         "Roth order",
			Ordering:     []string{event.ID},
		})
		testutil.AssertNoError(t, err)

		spending := models.StrategySpending
		strategies, err := svc.GetScenarioStrategies(ts.user.ID, ts.scenario.ID, &spending)
		testutil.AssertNoError(t, err)
		if len(strategies) != 1 {
			t.Fatalf("expected 1 spending strategy, got %d", len(strategies))
		}
	})
}
