package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "shallowfind/internal/errors"
	"shallowfind/internal/models"
	"shallowfind/internal/services"
)

// InvestmentTypeHandler handles investment type requests.
type InvestmentTypeHandler struct {
	typeService  services.InvestmentTypeServicer
	auditService services.AuditServicer
}

// NewInvestmentTypeHandler creates a new InvestmentTypeHandler.
func NewInvestmentTypeHandler(typeService services.InvestmentTypeServicer, auditService services.AuditServicer) *InvestmentTypeHandler {
	return &InvestmentTypeHandler{typeService: typeService, auditService: auditService}
}

// InvestmentTypeRequest represents the request payload for creating or updating an investment type.
type InvestmentTypeRequest struct {
	Name                 string                      `json:"name" binding:"required,min=1,max=255"`
	Description          string                      `json:"description" binding:"max=1000"`
	ExpectedAnnualReturn models.Distribution         `json:"expected_annual_return" binding:"required"`
	ExpenseRatio         decimal.Decimal             `json:"expense_ratio"`
	ExpectedAnnualIncome models.Distribution         `json:"expected_annual_income" binding:"required"`
	Taxability           models.InvestmentTaxability `json:"taxability" binding:"required,taxability"`
	IsCash               bool                        `json:"is_cash"`
}

func (r *InvestmentTypeRequest) toInput() services.InvestmentTypeInput {
	return services.InvestmentTypeInput{
		Name:                 r.Name,
		Description:          r.Description,
		ExpectedAnnualReturn: r.ExpectedAnnualReturn,
		ExpenseRatio:         r.ExpenseRatio,
		ExpectedAnnualIncome: r.ExpectedAnnualIncome,
		Taxability:           r.Taxability,
		IsCash:               r.IsCash,
	}
}

// CreateInvestmentType handles the creation of an investment type
// @Summary     Create an investment type
// @Description Create a new investment type in a scenario
// @Tags        investment-types
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Scenario ID"
// @Param       request body InvestmentTypeRequest true "Investment type details"
// @Success     201 {object} models.InvestmentType "Investment type created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Scenario not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scenarios/{id}/investment-types [post]
func (h *InvestmentTypeHandler) CreateInvestmentType(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req InvestmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	investmentType, err := h.typeService.CreateInvestmentType(userID, c.Param("id"), req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_INVESTMENT_TYPE", "investment_type", investmentType.ID, c.ClientIP(),
		map[string]any{"name": req.Name, "is_cash": req.IsCash})

	c.JSON(http.StatusCreated, gin.H{"investment_type": investmentType})
}

// GetScenarioInvestmentTypes handles listing a scenario's investment types
// @Summary     List investment types
// @Description Get the investment types of a scenario
// @Tags        investment-types
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Scenario ID"
// @Success     200 {array} models.InvestmentType "Investment types"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Scenario not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scenarios/{id}/investment-types [get]
func (h *InvestmentTypeHandler) GetScenarioInvestmentTypes(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	types, err := h.typeService.GetScenarioInvestmentTypes(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"investment_types": types})
}

// ValidateScenarioInvestmentTypes handles the scenario-wide cash-type check
// @Summary     Validate investment types
// @Description Check the scenario-wide investment type rules, such as the single cash type requirement
// @Tags        investment-types
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Scenario ID"
// @Success     200 {object} map[string]bool "Validation passed"
// @Failure     400 {object} ErrorResponse "Validation failed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Scenario not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scenarios/{id}/investment-types/validate [post]
func (h *InvestmentTypeHandler) ValidateScenarioInvestmentTypes(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.typeService.ValidateScenarioInvestmentTypes(userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// GetInvestmentTypeByID handles the retrieval of a specific investment type
// @Summary     Get investment type by ID
// @Description Get a specific investment type by ID
// @Tags        investment-types
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investment type ID"
// @Success     200 {object} models.InvestmentType "Investment type details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment type not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investment-types/{id} [get]
func (h *InvestmentTypeHandler) GetInvestmentTypeByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentType, err := h.typeService.GetInvestmentTypeByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"investment_type": investmentType})
}

// UpdateInvestmentType handles updating an investment type
// @Summary     Update investment type
// @Description Update an existing investment type
// @Tags        investment-types
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Investment type ID"
// @Param       request body InvestmentTypeRequest true "Updated investment type details"
// @Success     200 {object} models.InvestmentType "Updated investment type"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment type not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investment-types/{id} [put]
func (h *InvestmentTypeHandler) UpdateInvestmentType(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req InvestmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	typeID := c.Param("id")
	investmentType, err := h.typeService.UpdateInvestmentType(userID, typeID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_INVESTMENT_TYPE", "investment_type", typeID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"investment_type": investmentType})
}

// DeleteInvestmentType handles deleting an investment type
// @Summary     Delete investment type
// @Description Delete an investment type that no investments hold
// @Tags        investment-types
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investment type ID"
// @Success     204 "Investment type deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment type not found"
// @Failure     409 {object} ErrorResponse "Investment type in use"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investment-types/{id} [delete]
func (h *InvestmentTypeHandler) DeleteInvestmentType(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	typeID := c.Param("id")
	if err := h.typeService.DeleteInvestmentType(userID, typeID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_INVESTMENT_TYPE", "investment_type", typeID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
