package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestScenarioFlow_CreateActivateArchive(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "scenario@test.com", "password123")

	scenarioID := app.createScenario(t, token, "Retirement Plan")

	// A fresh scenario starts in draft.
	rec := app.request("GET", "/api/v1/scenarios/"+scenarioID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get scenario failed: %d %s", rec.Code, rec.Body.String())
	}
	scenario := parseJSON(t, rec)["scenario"].(map[string]interface{})
	if scenario["status"] != "draft" {
		t.Errorf("expected draft status, got %v", scenario["status"])
	}

	// Activation without a cash type fails the consistency check.
	rec = app.request("PATCH", "/api/v1/scenarios/"+scenarioID+"/status",
		`{"status":"active"}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 activating without cash type, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR, got %v", code)
	}

	// Add the cash type, then activation succeeds.
	app.createInvestmentType(t, token, scenarioID, "Cash", true)
	rec = app.request("PATCH", "/api/v1/scenarios/"+scenarioID+"/status",
		`{"status":"active"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("activation failed: %d %s", rec.Code, rec.Body.String())
	}

	// Status only moves forward.
	rec = app.request("PATCH", "/api/v1/scenarios/"+scenarioID+"/status",
		`{"status":"draft"}`, token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 moving back to draft, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "INVALID_STATUS_TRANSITION" {
		t.Errorf("expected INVALID_STATUS_TRANSITION, got %v", code)
	}

	rec = app.request("PATCH", "/api/v1/scenarios/"+scenarioID+"/status",
		`{"status":"archived"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("archive failed: %d %s", rec.Code, rec.Body.String())
	}
}

func TestScenarioFlow_OwnershipIsolation(t *testing.T) {
	app := setupApp(t)
	ownerToken, _, _ := app.registerUser(t, "owner@test.com", "password123")
	otherToken, _, _ := app.registerUser(t, "other@test.com", "password123")

	scenarioID := app.createScenario(t, ownerToken, "Private Plan")

	// Another user cannot read, update, or delete the scenario; the response
	// does not reveal that it exists.
	rec := app.request("GET", "/api/v1/scenarios/"+scenarioID, "", otherToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign read, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "SCENARIO_NOT_FOUND" {
		t.Errorf("expected SCENARIO_NOT_FOUND, got %v", code)
	}

	rec = app.request("DELETE", "/api/v1/scenarios/"+scenarioID, "", otherToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign delete, got %d", rec.Code)
	}

	// The owner's list contains it, the other user's does not.
	rec = app.request("GET", "/api/v1/scenarios", "", otherToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if data := result["data"].([]interface{}); len(data) != 0 {
		t.Errorf("expected empty list for other user, got %d scenarios", len(data))
	}
}

func TestScenarioFlow_ShareAndRevoke(t *testing.T) {
	app := setupApp(t)
	ownerToken, _, _ := app.registerUser(t, "sharer@test.com", "password123")
	_, _, recipientID := app.registerUser(t, "recipient@test.com", "password123")

	scenarioID := app.createScenario(t, ownerToken, "Shared Plan")

	body := fmt.Sprintf(`{"shared_with_user_id":%q,"permission":"ro"}`, recipientID)
	rec := app.request("POST", "/api/v1/scenarios/"+scenarioID+"/shares", body, ownerToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create share failed: %d %s", rec.Code, rec.Body.String())
	}
	share := parseJSON(t, rec)["share"].(map[string]interface{})
	shareID := share["id"].(string)

	// A second share for the same recipient is rejected.
	rec = app.request("POST", "/api/v1/scenarios/"+scenarioID+"/shares", body, ownerToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate share, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "DUPLICATE_SHARE" {
		t.Errorf("expected DUPLICATE_SHARE, got %v", code)
	}

	rec = app.request("DELETE", "/api/v1/shares/"+shareID, "", ownerToken)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("revoke failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/scenarios/"+scenarioID+"/shares", "", ownerToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("list shares failed: %d %s", rec.Code, rec.Body.String())
	}
	if shares := parseJSON(t, rec)["shares"].([]interface{}); len(shares) != 0 {
		t.Errorf("expected no shares after revoke, got %d", len(shares))
	}
}

func TestScenarioFlow_DeleteCascades(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "cascade@test.com", "password123")

	scenarioID := app.createScenario(t, token, "Doomed Plan")
	typeID := app.createInvestmentType(t, token, scenarioID, "Stocks", false)
	investmentID := app.createInvestment(t, token, scenarioID, typeID, "Brokerage")

	rec := app.request("DELETE", "/api/v1/scenarios/"+scenarioID, "", token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete failed: %d %s", rec.Code, rec.Body.String())
	}

	// Children are gone with the scenario.
	rec = app.request("GET", "/api/v1/investment-types/"+typeID, "", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for deleted type, got %d", rec.Code)
	}
	rec = app.request("GET", "/api/v1/investments/"+investmentID, "", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for deleted investment, got %d", rec.Code)
	}
}
