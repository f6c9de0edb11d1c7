package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"shallowfind/internal/handlers"
	"shallowfind/internal/logger"
	"shallowfind/internal/middleware"
	"shallowfind/internal/models"
	"shallowfind/internal/services"
	"shallowfind/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Scenario{},
		&models.InvestmentType{},
		&models.Investment{},
		&models.EventSeries{},
		&models.Strategy{},
		&models.ScenarioShare{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	scenarioService := services.NewScenarioService(db)
	shareService := services.NewShareService(db)
	investmentTypeService := services.NewInvestmentTypeService(db)
	investmentService := services.NewInvestmentService(db)
	eventSeriesService := services.NewEventSeriesService(db)
	strategyService := services.NewStrategyService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	scenarioHandler := handlers.NewScenarioHandler(scenarioService, auditService)
	shareHandler := handlers.NewShareHandler(shareService, auditService)
	investmentTypeHandler := handlers.NewInvestmentTypeHandler(investmentTypeService, auditService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService, auditService)
	eventSeriesHandler := handlers.NewEventSeriesHandler(eventSeriesService, auditService)
	strategyHandler := handlers.NewStrategyHandler(strategyService, auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	scenarios := protected.Group("/scenarios")
	scenarios.POST("", scenarioHandler.CreateScenario)
	scenarios.GET("", scenarioHandler.GetUserScenarios)
	scenarios.GET("/:id", scenarioHandler.GetScenarioByID)
	scenarios.PUT("/:id", scenarioHandler.UpdateScenario)
	scenarios.PATCH("/:id/status", scenarioHandler.UpdateScenarioStatus)
	scenarios.DELETE("/:id", scenarioHandler.DeleteScenario)

	scenarios.POST("/:id/shares", shareHandler.CreateShare)
	scenarios.GET("/:id/shares", shareHandler.GetScenarioShares)
	protected.DELETE("/shares/:id", shareHandler.RevokeShare)

	scenarios.POST("/:id/investment-types", investmentTypeHandler.CreateInvestmentType)
	scenarios.GET("/:id/investment-types", investmentTypeHandler.GetScenarioInvestmentTypes)
	scenarios.POST("/:id/investment-types/validate", investmentTypeHandler.ValidateScenarioInvestmentTypes)
	investmentTypes := protected.Group("/investment-types")
	investmentTypes.GET("/:id", investmentTypeHandler.GetInvestmentTypeByID)
	investmentTypes.PUT("/:id", investmentTypeHandler.UpdateInvestmentType)
	investmentTypes.DELETE("/:id", investmentTypeHandler.DeleteInvestmentType)

	scenarios.POST("/:id/investments", investmentHandler.CreateInvestment)
	scenarios.GET("/:id/investments", investmentHandler.GetScenarioInvestments)
	investments := protected.Group("/investments")
	investments.GET("/:id", investmentHandler.GetInvestmentByID)
	investments.PUT("/:id", investmentHandler.UpdateInvestment)
	investments.DELETE("/:id", investmentHandler.DeleteInvestment)

	scenarios.POST("/:id/event-series/income", eventSeriesHandler.CreateIncomeEvent)
	scenarios.POST("/:id/event-series/expense", eventSeriesHandler.CreateExpenseEvent)
	scenarios.POST("/:id/event-series/invest", eventSeriesHandler.CreateInvestEvent)
	scenarios.POST("/:id/event-series/rebalance", eventSeriesHandler.CreateRebalanceEvent)
	scenarios.GET("/:id/event-series", eventSeriesHandler.GetScenarioEventSeries)
	eventSeries := protected.Group("/event-series")
	eventSeries.GET("/:id", eventSeriesHandler.GetEventSeriesByID)
	eventSeries.PUT("/income/:id", eventSeriesHandler.UpdateIncomeEvent)
	eventSeries.PUT("/expense/:id", eventSeriesHandler.UpdateExpenseEvent)
	eventSeries.PUT("/invest/:id", eventSeriesHandler.UpdateInvestEvent)
	eventSeries.PUT("/rebalance/:id", eventSeriesHandler.UpdateRebalanceEvent)
	eventSeries.DELETE("/:id", eventSeriesHandler.DeleteEventSeries)

	scenarios.POST("/:id/strategies", strategyHandler.CreateStrategy)
	scenarios.GET("/:id/strategies", strategyHandler.GetScenarioStrategies)
	strategies := protected.Group("/strategies")
	strategies.GET("/:id", strategyHandler.GetStrategyByID)
	strategies.PUT("/:id", strategyHandler.UpdateStrategy)
	strategies.DELETE("/:id", strategyHandler.DeleteStrategy)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// errorCode extracts the error code from an error response body.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	result := parseJSON(t, rec)
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in body: %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// createScenario creates a minimal individual scenario and returns its ID.
func (app *testApp) createScenario(t *testing.T, token, name string) string {
	t.Helper()
	body := fmt.Sprintf(`{
		"name": %q,
		"scenario_type": "individual",
		"user_birth_year": 1980,
		"user_life_expectancy": {"type": "fixed", "value": 85},
		"financial_goal": 1000000,
		"state_of_residence": "NY"
	}`, name)
	rec := app.request("POST", "/api/v1/scenarios", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create scenario failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	scenario := result["scenario"].(map[string]interface{})
	return scenario["id"].(string)
}

// createInvestmentType creates an investment type in the scenario and returns its ID.
func (app *testApp) createInvestmentType(t *testing.T, token, scenarioID, name string, isCash bool) string {
	t.Helper()
	body := fmt.Sprintf(`{
		"name": %q,
		"expected_annual_return": {"type": "fixed", "value": 5},
		"expense_ratio": 0.004,
		"expected_annual_income": {"type": "fixed", "value": 1},
		"taxability": "taxable",
		"is_cash": %t
	}`, name, isCash)
	rec := app.request("POST", "/api/v1/scenarios/"+scenarioID+"/investment-types", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create investment type failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	invType := result["investment_type"].(map[string]interface{})
	return invType["id"].(string)
}

// createInvestment creates an investment in the scenario and returns its ID.
func (app *testApp) createInvestment(t *testing.T, token, scenarioID, typeID, name string) string {
	t.Helper()
	body := fmt.Sprintf(`{
		"investment_type_id": %q,
		"name": %q,
		"current_value": 10000,
		"tax_status": "non_retirement",
		"cost_basis": 8000
	}`, typeID, name)
	rec := app.request("POST", "/api/v1/scenarios/"+scenarioID+"/investments", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create investment failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	investment := result["investment"].(map[string]interface{})
	return investment["id"].(string)
}
