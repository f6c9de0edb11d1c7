package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "shallowfind/internal/errors"
	"shallowfind/internal/models"
	"shallowfind/internal/pagination"
	"shallowfind/internal/services"
)

// ScenarioHandler handles scenario-related requests.
type ScenarioHandler struct {
	scenarioService services.ScenarioServicer
	auditService    services.AuditServicer
}

// NewScenarioHandler creates a new ScenarioHandler.
func NewScenarioHandler(scenarioService services.ScenarioServicer, auditService services.AuditServicer) *ScenarioHandler {
	return &ScenarioHandler{scenarioService: scenarioService, auditService: auditService}
}

// ScenarioRequest represents the request payload for creating or updating a scenario.
type ScenarioRequest struct {
	Name                    string               `json:"name" binding:"required,min=1,max=255"`
	Description             string               `json:"description" binding:"max=1000"`
	ScenarioType            models.ScenarioType  `json:"scenario_type" binding:"required,scenario_type"`
	UserBirthYear           *int                 `json:"user_birth_year" binding:"omitempty,min=1900,max=2100"`
	SpouseBirthYear         *int                 `json:"spouse_birth_year" binding:"omitempty,min=1900,max=2100"`
	UserLifeExpectancy      *models.Distribution `json:"user_life_expectancy"`
	SpouseLifeExpectancy    *models.Distribution `json:"spouse_life_expectancy"`
	FinancialGoal           decimal.Decimal      `json:"financial_goal"`
	StateOfResidence        string               `json:"state_of_residence" binding:"omitempty,len=2"`
	InflationAssumption     *models.Distribution `json:"inflation_assumption"`
	AnnualContributionLimit decimal.Decimal      `json:"annual_contribution_limit"`
	RothOptimizerEnabled    bool                 `json:"roth_optimizer_enabled"`
	RothOptimizerStartYear  *int                 `json:"roth_optimizer_start_year" binding:"omitempty,min=1900,max=2200"`
	RothOptimizerEndYear    *int                 `json:"roth_optimizer_end_year" binding:"omitempty,min=1900,max=2200"`
}

// UpdateStatusRequest represents the request payload for advancing a scenario's status.
type UpdateStatusRequest struct {
	Status models.ScenarioStatus `json:"status" binding:"required,scenario_status"`
}

func (r *ScenarioRequest) toInput() services.ScenarioInput {
	return services.ScenarioInput{
		Name:                    r.Name,
		Description:             r.Description,
		ScenarioType:            r.ScenarioType,
		UserBirthYear:           r.UserBirthYear,
		SpouseBirthYear:         r.SpouseBirthYear,
		UserLifeExpectancy:      r.UserLifeExpectancy,
		SpouseLifeExpectancy:    r.SpouseLifeExpectancy,
		FinancialGoal:           r.FinancialGoal,
		StateOfResidence:        r.StateOfResidence,
		InflationAssumption:     r.InflationAssumption,
		AnnualContributionLimit: r.AnnualContributionLimit,
		RothOptimizerEnabled:    r.RothOptimizerEnabled,
		RothOptimizerStartYear:  r.RothOptimizerStartYear,
		RothOptimizerEndYear:    r.RothOptimizerEndYear,
	}
}

// CreateScenario handles the creation of a new scenario
// @Summary     Create a scenario
// @Description Create a new planning scenario for the authenticated user
// @Tags        scenarios
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ScenarioRequest true "Scenario details"
// @Success     201 {object} models.Scenario "Scenario created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scenarios [post]
func (h *ScenarioHandler) CreateScenario(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	scenario, err := h.scenarioService.CreateScenario(userID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_SCENARIO", "scenario", scenario.ID, c.ClientIP(),
		map[string]any{"name": req.Name, "scenario_type": req.ScenarioType})

	c.JSON(http.StatusCreated, gin.H{"scenario": scenario})
}

// GetUserScenarios handles the retrieval of the user's scenarios
// @Summary     List scenarios
// @Description Get a paginated list of scenarios for the authenticated user
// @Tags        scenarios
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Scenario] "Paginated scenarios"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scenarios [get]
func (h *ScenarioHandler) GetUserScenarios(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.scenarioService.GetUserScenarios(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetScenarioByID handles the retrieval of a specific scenario
// @Summary     Get scenario by ID
// @Description Get a specific scenario by ID for the authenticated user
// @Tags        scenarios
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Scenario ID"
// @Success     200 {object} models.Scenario "Scenario details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Scenario not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scenarios/{id} [get]
func (h *ScenarioHandler) GetScenarioByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	scenario, err := h.scenarioService.GetScenarioByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"scenario": scenario})
}

// UpdateScenario handles updating a scenario
// @Summary     Update scenario
// @Description Update an existing scenario. The scenario type cannot change after creation.
// @Tags        scenarios
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string          true "Scenario ID"
// @Param       request body ScenarioRequest true "Updated scenario details"
// @Success     200 {object} models.Scenario "Updated scenario"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Scenario not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scenarios/{id} [put]
func (h *ScenarioHandler) UpdateScenario(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	scenarioID := c.Param("id")
	scenario, err := h.scenarioService.UpdateScenario(userID, scenarioID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_SCENARIO", "scenario", scenarioID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"scenario": scenario})
}

// UpdateScenarioStatus handles advancing a scenario's lifecycle status
// @Summary     Update scenario status
// @Description Advance a scenario's status. Transitions only move forward: draft, active, archived.
// @Tags        scenarios
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Scenario ID"
// @Param       request body UpdateStatusRequest true "New status"
// @Success     200 {object} models.Scenario "Updated scenario"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Scenario not found"
// @Failure     409 {object} ErrorResponse "Invalid status transition"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scenarios/{id}/status [patch]
func (h *ScenarioHandler) UpdateScenarioStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	scenarioID := c.Param("id")
	scenario, err := h.scenarioService.UpdateScenarioStatus(userID, scenarioID, req.Status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_SCENARIO_STATUS", "scenario", scenarioID, c.ClientIP(),
		map[string]any{"status": req.Status})

	c.JSON(http.StatusOK, gin.H{"scenario": scenario})
}

// DeleteScenario handles deleting a scenario and all of its children
// @Summary     Delete scenario
// @Description Delete a scenario and everything it contains
// @Tags        scenarios
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Scenario ID"
// @Success     204 "Scenario deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Scenario not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scenarios/{id} [delete]
func (h *ScenarioHandler) DeleteScenario(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	scenarioID := c.Param("id")
	if err := h.scenarioService.DeleteScenario(userID, scenarioID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_SCENARIO", "scenario", scenarioID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
