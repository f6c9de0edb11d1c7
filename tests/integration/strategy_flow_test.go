package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestStrategyFlow_SpendingOrdering(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "strategy@test.com", "password123")
	scenarioID := app.createScenario(t, token, "Strategy Plan")
	typeID := app.createInvestmentType(t, token, scenarioID, "Stocks", false)
	firstID := app.createInvestment(t, token, scenarioID, typeID, "Brokerage")
	secondID := app.createInvestment(t, token, scenarioID, typeID, "Savings")

	body := fmt.Sprintf(`{
		"strategy_type": "spending",
		"name": "Drawdown order",
		"is_active": true,
		"ordering": [%q, %q]
	}`, secondID, firstID)
	rec := app.request("POST", "/api/v1/scenarios/"+scenarioID+"/strategies", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create strategy failed: %d %s", rec.Code, rec.Body.String())
	}
	strategy := parseJSON(t, rec)["strategy"].(map[string]interface{})
	strategyID := strategy["id"].(string)

	ordering := strategy["ordering"].([]interface{})
	if len(ordering) != 2 || ordering[0] != secondID {
		t.Errorf("expected ordering preserved, got %v", ordering)
	}

	// An ordering entry that is not an investment in this scenario is rejected.
	body = fmt.Sprintf(`{
		"strategy_type": "spending",
		"name": "Drawdown order",
		"is_active": true,
		"ordering": [%q, "77777777-7777-7777-8777-777777777777"]
	}`, firstID)
	rec = app.request("PUT", "/api/v1/strategies/"+strategyID, body, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unresolved ordering id, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "ORDERING_REFERENCE_NOT_FOUND" {
		t.Errorf("expected ORDERING_REFERENCE_NOT_FOUND, got %v", code)
	}

	rec = app.request("DELETE", "/api/v1/strategies/"+strategyID, "", token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete strategy failed: %d %s", rec.Code, rec.Body.String())
	}
}

func TestStrategyFlow_WithdrawalOrdering(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "withdrawal@test.com", "password123")
	scenarioID := app.createScenario(t, token, "Withdrawal Plan")

	body := `{
		"name": "Rent",
		"start_year": {"type": "fixed", "value": 2030},
		"duration": {"type": "fixed", "value": 10},
		"is_active": true,
		"initial_amount": 24000
	}`
	rec := app.request("POST", "/api/v1/scenarios/"+scenarioID+"/event-series/expense", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
	}
	expense := parseJSON(t, rec)["event_series"].(map[string]interface{})

	body = fmt.Sprintf(`{
		"strategy_type": "expense_withdrawal",
		"name": "Cover rent last",
		"is_active": true,
		"ordering": [%q]
	}`, expense["id"].(string))
	rec = app.request("POST", "/api/v1/scenarios/"+scenarioID+"/strategies", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create withdrawal strategy failed: %d %s", rec.Code, rec.Body.String())
	}
}
