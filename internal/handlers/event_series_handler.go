package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "shallowfind/internal/errors"
	"shallowfind/internal/models"
	"shallowfind/internal/services"
)

// EventSeriesHandler handles event series requests. Each event type has its
// own create and update endpoint so the payload can be validated against the
// right shape.
type EventSeriesHandler struct {
	eventService services.EventSeriesServicer
	auditService services.AuditServicer
}

// NewEventSeriesHandler creates a new EventSeriesHandler.
func NewEventSeriesHandler(eventService services.EventSeriesServicer, auditService services.AuditServicer) *EventSeriesHandler {
	return &EventSeriesHandler{eventService: eventService, auditService: auditService}
}

// EventSeriesEnvelope holds the fields shared by all event series payloads.
type EventSeriesEnvelope struct {
	Name                   string               `json:"name" binding:"required,min=1,max=255"`
	Description            string               `json:"description" binding:"max=1000"`
	StartYear              *models.Distribution `json:"start_year"`
	Duration               *models.Distribution `json:"duration"`
	StartTimingType        string               `json:"start_timing_type" binding:"omitempty,start_timing_type"`
	ReferenceEventSeriesID *string              `json:"reference_event_series_id" binding:"omitempty,uuid"`
	IsActive               bool                 `json:"is_active"`
	OrderIndex             int                  `json:"order_index" binding:"gte=0"`
}

func (e *EventSeriesEnvelope) toInput() services.EventSeriesInput {
	return services.EventSeriesInput{
		Name:                   e.Name,
		Description:            e.Description,
		StartYear:              e.StartYear,
		Duration:               e.Duration,
		StartTimingType:        e.StartTimingType,
		ReferenceEventSeriesID: e.ReferenceEventSeriesID,
		IsActive:               e.IsActive,
		OrderIndex:             e.OrderIndex,
	}
}

// IncomeEventRequest represents the payload for an income event series.
type IncomeEventRequest struct {
	EventSeriesEnvelope
	InitialAmount     decimal.Decimal      `json:"initial_amount"`
	AnnualChange      *models.Distribution `json:"annual_change"`
	InflationAdjusted bool                 `json:"inflation_adjusted"`
	UserPercentage    *decimal.Decimal     `json:"user_percentage"`
	IsSocialSecurity  bool                 `json:"is_social_security"`
}

func (r *IncomeEventRequest) toInput() services.IncomeEventInput {
	return services.IncomeEventInput{
		EventSeriesInput:  r.EventSeriesEnvelope.toInput(),
		InitialAmount:     r.InitialAmount,
		AnnualChange:      r.AnnualChange,
		InflationAdjusted: r.InflationAdjusted,
		UserPercentage:    r.UserPercentage,
		IsSocialSecurity:  r.IsSocialSecurity,
	}
}

// ExpenseEventRequest represents the payload for an expense event series.
type ExpenseEventRequest struct {
	EventSeriesEnvelope
	InitialAmount     decimal.Decimal      `json:"initial_amount"`
	AnnualChange      *models.Distribution `json:"annual_change"`
	InflationAdjusted bool                 `json:"inflation_adjusted"`
	UserPercentage    *decimal.Decimal     `json:"user_percentage"`
	IsDiscretionary   bool                 `json:"is_discretionary"`
}

func (r *ExpenseEventRequest) toInput() services.ExpenseEventInput {
	return services.ExpenseEventInput{
		EventSeriesInput:  r.EventSeriesEnvelope.toInput(),
		InitialAmount:     r.InitialAmount,
		AnnualChange:      r.AnnualChange,
		InflationAdjusted: r.InflationAdjusted,
		UserPercentage:    r.UserPercentage,
		IsDiscretionary:   r.IsDiscretionary,
	}
}

// InvestEventRequest represents the payload for an invest event series.
type InvestEventRequest struct {
	EventSeriesEnvelope
	AssetAllocation   models.AllocationMap `json:"asset_allocation" binding:"required"`
	IsGlidePath       bool                 `json:"is_glide_path"`
	InitialAllocation models.AllocationMap `json:"initial_allocation"`
	FinalAllocation   models.AllocationMap `json:"final_allocation"`
	MaximumCash       *decimal.Decimal     `json:"maximum_cash"`
}

func (r *InvestEventRequest) toInput() services.InvestEventInput {
	return services.InvestEventInput{
		EventSeriesInput:  r.EventSeriesEnvelope.toInput(),
		AssetAllocation:   r.AssetAllocation,
		IsGlidePath:       r.IsGlidePath,
		InitialAllocation: r.InitialAllocation,
		FinalAllocation:   r.FinalAllocation,
		MaximumCash:       r.MaximumCash,
	}
}

// RebalanceEventRequest represents the payload for a rebalance event series.
type RebalanceEventRequest struct {
	EventSeriesEnvelope
	AssetAllocation   models.AllocationMap    `json:"asset_allocation" binding:"required"`
	IsGlidePath       bool                    `json:"is_glide_path"`
	InitialAllocation models.AllocationMap    `json:"initial_allocation"`
	FinalAllocation   models.AllocationMap    `json:"final_allocation"`
	TargetTaxStatus   models.AccountTaxStatus `json:"target_tax_status" binding:"required,tax_status"`
}

func (r *RebalanceEventRequest) toInput() services.RebalanceEventInput {
	return services.RebalanceEventInput{
		EventSeriesInput:  r.EventSeriesEnvelope.toInput(),
		AssetAllocation:   r.AssetAllocation,
		IsGlidePath:       r.IsGlidePath,
		InitialAllocation: r.InitialAllocation,
		FinalAllocation:   r.FinalAllocation,
		TargetTaxStatus:   r.TargetTaxStatus,
	}
}

// CreateIncomeEvent handles the creation of an income event series
// @Summary     Create an income event series
// @Description Create a new income event series in a scenario
// @Tags        event-series
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Scenario ID"
// @Param       request body IncomeEventRequest true "Income event details"
// @Success     201 {object} models.EventSeries "Event series created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Scenario or reference not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scenarios/{id}/event-series/income [post]
func (h *EventSeriesHandler) CreateIncomeEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req IncomeEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	event, err := h.eventService.CreateIncomeEvent(userID, c.Param("id"), req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EVENT_SERIES", "event_series", event.ID, c.ClientIP(),
		map[string]any{"name": req.Name, "type": models.EventTypeIncome})

	c.JSON(http.StatusCreated, gin.H{"event_series": event})
}

// CreateExpenseEvent handles the creation of an expense event series
// @Summary     Create an expense event series
// @Description Create a new expense event series in a scenario
// @Tags        event-series
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Scenario ID"
// @Param       request body ExpenseEventRequest true "Expense event details"
// @Success     201 {object} models.EventSeries "Event series created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Scenario or reference not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scenarios/{id}/event-series/expense [post]
func (h *EventSeriesHandler) CreateExpenseEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	event, err := h.eventService.CreateExpenseEvent(userID, c.Param("id"), req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EVENT_SERIES", "event_series", event.ID, c.ClientIP(),
		map[string]any{"name": req.Name, "type": models.EventTypeExpense})

	c.JSON(http.StatusCreated, gin.H{"event_series": event})
}

// CreateInvestEvent handles the creation of an invest event series
// @Summary     Create an invest event series
// @Description Create a new invest event series in a scenario. Only one active invest event may exist per scenario.
// @Tags        event-series
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Scenario ID"
// @Param       request body InvestEventRequest true "Invest event details"
// @Success     201 {object} models.EventSeries "Event series created"
// @Failure     400 {object} ErrorResponse "Invalid input or allocation"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Scenario or reference not found"
// @Failure     409 {object} ErrorResponse "Active invest event already exists"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scenarios/{id}/event-series/invest [post]
func (h *EventSeriesHandler) CreateInvestEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req InvestEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	event, err := h.eventService.CreateInvestEvent(userID, c.Param("id"), req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EVENT_SERIES", "event_series", event.ID, c.ClientIP(),
		map[string]any{"name": req.Name, "type": models.EventTypeInvest})

	c.JSON(http.StatusCreated, gin.H{"event_series": event})
}

// CreateRebalanceEvent handles the creation of a rebalance event series
// @Summary     Create a rebalance event series
// @Description Create a new rebalance event series in a scenario. Only one active rebalance event may exist per scenario and tax status.
// @Tags        event-series
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Scenario ID"
// @Param       request body RebalanceEventRequest true "Rebalance event details"
// @Success     201 {object} models.EventSeries "Event series created"
// @Failure     400 {object} ErrorResponse "Invalid input or allocation"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Scenario or reference not found"
// @Failure     409 {object} ErrorResponse "Active rebalance event already exists for this tax status"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scenarios/{id}/event-series/rebalance [post]
func (h *EventSeriesHandler) CreateRebalanceEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RebalanceEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	event, err := h.eventService.CreateRebalanceEvent(userID, c.Param("id"), req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EVENT_SERIES", "event_series", event.ID, c.ClientIP(),
		map[string]any{"name": req.Name, "type": models.EventTypeRebalance})

	c.JSON(http.StatusCreated, gin.H{"event_series": event})
}

// GetScenarioEventSeries handles listing a scenario's event series
// @Summary     List event series
// @Description Get the event series of a scenario, optionally filtered by type
// @Tags        event-series
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id   path  string true  "Scenario ID"
// @Param       type query string false "Event type filter (income, expense, invest, rebalance)"
// @Success     200 {array} models.EventSeries "Event series"
// @Failure     400 {object} ErrorResponse "Invalid type filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Scenario not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scenarios/{id}/event-series [get]
func (h *EventSeriesHandler) GetScenarioEventSeries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var eventType *models.EventSeriesType
	if raw := c.Query("type"); raw != "" {
		t := models.EventSeriesType(raw)
		switch t {
		case models.EventTypeIncome, models.EventTypeExpense, models.EventTypeInvest, models.EventTypeRebalance:
			eventType = &t
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid event type filter"))
			return
		}
	}

	series, err := h.eventService.GetScenarioEventSeries(userID, c.Param("id"), eventType)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event_series": series})
}

// GetEventSeriesByID handles the retrieval of a specific event series
// @Summary     Get event series by ID
// @Description Get a specific event series by ID
// @Tags        event-series
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Event series ID"
// @Success     200 {object} models.EventSeries "Event series details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Event series not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /event-series/{id} [get]
func (h *EventSeriesHandler) GetEventSeriesByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	event, err := h.eventService.GetEventSeriesByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event_series": event})
}

// UpdateIncomeEvent handles updating an income event series
// @Summary     Update income event series
// @Description Update an existing income event series
// @Tags        event-series
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Event series ID"
// @Param       request body IncomeEventRequest true "Updated income event details"
// @Success     200 {object} models.EventSeries "Updated event series"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Event series not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /event-series/income/{id} [put]
func (h *EventSeriesHandler) UpdateIncomeEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req IncomeEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	eventID := c.Param("id")
	event, err := h.eventService.UpdateIncomeEvent(userID, eventID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EVENT_SERIES", "event_series", eventID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"event_series": event})
}

// UpdateExpenseEvent handles updating an expense event series
// @Summary     Update expense event series
// @Description Update an existing expense event series
// @Tags        event-series
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Event series ID"
// @Param       request body ExpenseEventRequest true "Updated expense event details"
// @Success     200 {object} models.EventSeries "Updated event series"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Event series not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /event-series/expense/{id} [put]
func (h *EventSeriesHandler) UpdateExpenseEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	eventID := c.Param("id")
	event, err := h.eventService.UpdateExpenseEvent(userID, eventID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EVENT_SERIES", "event_series", eventID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"event_series": event})
}

// UpdateInvestEvent handles updating an invest event series
// @Summary     Update invest event series
// @Description Update an existing invest event series, re-checking the active-event exclusivity rule
// @Tags        event-series
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Event series ID"
// @Param       request body InvestEventRequest true "Updated invest event details"
// @Success     200 {object} models.EventSeries "Updated event series"
// @Failure     400 {object} ErrorResponse "Invalid input or allocation"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Event series not found"
// @Failure     409 {object} ErrorResponse "Active invest event already exists"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /event-series/invest/{id} [put]
func (h *EventSeriesHandler) UpdateInvestEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req InvestEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	eventID := c.Param("id")
	event, err := h.eventService.UpdateInvestEvent(userID, eventID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EVENT_SERIES", "event_series", eventID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"event_series": event})
}

// UpdateRebalanceEvent handles updating a rebalance event series
// @Summary     Update rebalance event series
// @Description Update an existing rebalance event series, re-checking the per-tax-status exclusivity rule
// @Tags        event-series
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Event series ID"
// @Param       request body RebalanceEventRequest true "Updated rebalance event details"
// @Success     200 {object} models.EventSeries "Updated event series"
// @Failure     400 {object} ErrorResponse "Invalid input or allocation"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Event series not found"
// @Failure     409 {object} ErrorResponse "Active rebalance event already exists for this tax status"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /event-series/rebalance/{id} [put]
func (h *EventSeriesHandler) UpdateRebalanceEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RebalanceEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	eventID := c.Param("id")
	event, err := h.eventService.UpdateRebalanceEvent(userID, eventID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EVENT_SERIES", "event_series", eventID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"event_series": event})
}

// DeleteEventSeries handles deleting an event series
// @Summary     Delete event series
// @Description Delete an event series that no other event series references
// @Tags        event-series
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Event series ID"
// @Success     204 "Event series deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Event series not found"
// @Failure     409 {object} ErrorResponse "Event series is referenced by others"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /event-series/{id} [delete]
func (h *EventSeriesHandler) DeleteEventSeries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID := c.Param("id")
	if err := h.eventService.DeleteEventSeries(userID, eventID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_EVENT_SERIES", "event_series", eventID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
