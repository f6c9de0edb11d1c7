package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "shallowfind/internal/errors"
	"shallowfind/internal/models"
	"shallowfind/internal/services"
)

// StrategyHandler handles strategy requests.
type StrategyHandler struct {
	strategyService services.StrategyServicer
	auditService    services.AuditServicer
}

// NewStrategyHandler creates a new StrategyHandler.
func NewStrategyHandler(strategyService services.StrategyServicer, auditService services.AuditServicer) *StrategyHandler {
	return &StrategyHandler{strategyService: strategyService, auditService: auditService}
}

// StrategyRequest represents the request payload for creating or updating a strategy.
type StrategyRequest struct {
	StrategyType models.StrategyType `json:"strategy_type" binding:"required,strategy_type"`
	Name         string              `json:"name" binding:"required,min=1,max=255"`
	Description  string              `json:"description" binding:"max=1000"`
	IsActive     bool                `json:"is_active"`
	Ordering     []string            `json:"ordering" binding:"required,min=1,dive,uuid"`
	Settings     map[string]any      `json:"settings"`
}

func (r *StrategyRequest) toInput() services.StrategyInput {
	return services.StrategyInput{
		StrategyType: r.StrategyType,
		Name:         r.Name,
		Description:  r.Description,
		IsActive:     r.IsActive,
		Ordering:     r.Ordering,
		Settings:     r.Settings,
	}
}

// CreateStrategy handles the creation of a strategy
// @Summary     Create a strategy
// @Description Create a new ordering strategy in a scenario
// @Tags        strategies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string          true "Scenario ID"
// @Param       request body StrategyRequest true "Strategy details"
// @Success     201 {object} models.Strategy "Strategy created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Scenario or ordering reference not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scenarios/{id}/strategies [post]
func (h *StrategyHandler) CreateStrategy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req StrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	strategy, err := h.strategyService.CreateStrategy(userID, c.Param("id"), req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_STRATEGY", "strategy", strategy.ID, c.ClientIP(),
		map[string]any{"name": req.Name, "strategy_type": req.StrategyType})

	c.JSON(http.StatusCreated, gin.H{"strategy": strategy})
}

// GetScenarioStrategies handles listing a scenario's strategies
// @Summary     List strategies
// @Description Get the strategies of a scenario, optionally filtered by type
// @Tags        strategies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id   path  string true  "Scenario ID"
// @Param       type query string false "Strategy type filter (spending, expense_withdrawal, rmd, roth_conversion)"
// @Success     200 {array} models.Strategy "Strategies"
// @Failure     400 {object} ErrorResponse "Invalid type filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Scenario not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scenarios/{id}/strategies [get]
func (h *StrategyHandler) GetScenarioStrategies(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var strategyType *models.StrategyType
	if raw := c.Query("type"); raw != "" {
		t := models.StrategyType(raw)
		switch t {
		case models.StrategySpending, models.StrategyExpenseWithdrawal, models.StrategyRMD, models.StrategyRothConversion:
			strategyType = &t
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid strategy type filter"))
			return
		}
	}

	strategies, err := h.strategyService.GetScenarioStrategies(userID, c.Param("id"), strategyType)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"strategies": strategies})
}

// GetStrategyByID handles the retrieval of a specific strategy
// @Summary     Get strategy by ID
// @Description Get a specific strategy by ID
// @Tags        strategies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Strategy ID"
// @Success     200 {object} models.Strategy "Strategy details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Strategy not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /strategies/{id} [get]
func (h *StrategyHandler) GetStrategyByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	strategy, err := h.strategyService.GetStrategyByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"strategy": strategy})
}

// UpdateStrategy handles updating a strategy
// @Summary     Update strategy
// @Description Update an existing strategy. The strategy type cannot change after creation.
// @Tags        strategies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string          true "Strategy ID"
// @Param       request body StrategyRequest true "Updated strategy details"
// @Success     200 {object} models.Strategy "Updated strategy"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Strategy or ordering reference not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /strategies/{id} [put]
func (h *StrategyHandler) UpdateStrategy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req StrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	strategyID := c.Param("id")
	strategy, err := h.strategyService.UpdateStrategy(userID, strategyID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_STRATEGY", "strategy", strategyID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"strategy": strategy})
}

// DeleteStrategy handles deleting a strategy
// @Summary     Delete strategy
// @Description Delete a strategy from its scenario
// @Tags        strategies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Strategy ID"
// @Success     204 "Strategy deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Strategy not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /strategies/{id} [delete]
func (h *StrategyHandler) DeleteStrategy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	strategyID := c.Param("id")
	if err := h.strategyService.DeleteStrategy(userID, strategyID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_STRATEGY", "strategy", strategyID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
