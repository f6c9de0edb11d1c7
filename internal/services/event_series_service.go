package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "shallowfind/internal/errors"
	"shallowfind/internal/models"
)

// eventSeriesService handles event series business logic and the
// graph-consistency rules tying events to investments and to each other.
type eventSeriesService struct {
	db *gorm.DB
}

// NewEventSeriesService creates a new EventSeriesServicer.
func NewEventSeriesService(db *gorm.DB) EventSeriesServicer {
	return &eventSeriesService{db: db}
}

// CreateIncomeEvent creates an income event series in the scenario.
func (s *eventSeriesService) CreateIncomeEvent(ownerID, scenarioID string, input IncomeEventInput) (*models.EventSeries, error) {
	if _, err := ownedScenario(s.db, scenarioID, ownerID); err != nil {
		return nil, err
	}
	if err := validateEnvelope(input.EventSeriesInput); err != nil {
		return nil, err
	}
	if err := validateAmountFields(input.InitialAmount, input.AnnualChange, input.UserPercentage); err != nil {
		return nil, err
	}
	if err := s.validateReference(s.db, scenarioID, input.ReferenceEventSeriesID, ""); err != nil {
		return nil, err
	}

	eventSeries := newEnvelope(scenarioID, models.EventTypeIncome, input.EventSeriesInput)
	eventSeries.InitialAmount = &input.InitialAmount
	eventSeries.AnnualChange = input.AnnualChange
	eventSeries.InflationAdjusted = input.InflationAdjusted
	eventSeries.UserPercentage = input.UserPercentage
	eventSeries.IsSocialSecurity = input.IsSocialSecurity

	if err := s.db.Create(eventSeries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return eventSeries, nil
}

// CreateExpenseEvent creates an expense event series in the scenario.
func (s *eventSeriesService) CreateExpenseEvent(ownerID, scenarioID string, input ExpenseEventInput) (*models.EventSeries, error) {
	if _, err := ownedScenario(s.db, scenarioID, ownerID); err != nil {
		return nil, err
	}
	if err := validateEnvelope(input.EventSeriesInput); err != nil {
		return nil, err
	}
	if err := validateAmountFields(input.InitialAmount, input.AnnualChange, input.UserPercentage); err != nil {
		return nil, err
	}
	if err := s.validateReference(s.db, scenarioID, input.ReferenceEventSeriesID, ""); err != nil {
		return nil, err
	}

	eventSeries := newEnvelope(scenarioID, models.EventTypeExpense, input.EventSeriesInput)
	eventSeries.InitialAmount = &input.InitialAmount
	eventSeries.AnnualChange = input.AnnualChange
	eventSeries.InflationAdjusted = input.InflationAdjusted
	eventSeries.UserPercentage = input.UserPercentage
	eventSeries.IsDiscretionary = input.IsDiscretionary

	if err := s.db.Create(eventSeries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return eventSeries, nil
}

// CreateInvestEvent creates an invest event series. The active-event
// exclusivity check and the insert run in one transaction so two concurrent
// creates cannot both slip past the check.
func (s *eventSeriesService) CreateInvestEvent(ownerID, scenarioID string, input InvestEventInput) (*models.EventSeries, error) {
	var created *models.EventSeries
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := ownedScenario(tx, scenarioID, ownerID); err != nil {
			return err
		}
		if err := validateEnvelope(input.EventSeriesInput); err != nil {
			return err
		}
		if err := s.validateReference(tx, scenarioID, input.ReferenceEventSeriesID, ""); err != nil {
			return err
		}
		if err := validateInvestPayload(tx, scenarioID, input); err != nil {
			return err
		}
		if input.IsActive {
			if err := checkNoActiveInvestEvent(tx, scenarioID, ""); err != nil {
				return err
			}
		}

		eventSeries := newEnvelope(scenarioID, models.EventTypeInvest, input.EventSeriesInput)
		applyInvestPayload(eventSeries, input)

		if err := tx.Create(eventSeries).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		created = eventSeries
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateRebalanceEvent creates a rebalance event series targeting one
// account tax status; its allocations may only reference investments of
// that status.
func (s *eventSeriesService) CreateRebalanceEvent(ownerID, scenarioID string, input RebalanceEventInput) (*models.EventSeries, error) {
	var created *models.EventSeries
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := ownedScenario(tx, scenarioID, ownerID); err != nil {
			return err
		}
		if err := validateEnvelope(input.EventSeriesInput); err != nil {
			return err
		}
		if err := s.validateReference(tx, scenarioID, input.ReferenceEventSeriesID, ""); err != nil {
			return err
		}
		if err := validateRebalancePayload(tx, scenarioID, input); err != nil {
			return err
		}
		if input.IsActive {
			if err := checkNoActiveRebalanceEvent(tx, scenarioID, input.TargetTaxStatus, ""); err != nil {
				return err
			}
		}

		eventSeries := newEnvelope(scenarioID, models.EventTypeRebalance, input.EventSeriesInput)
		applyRebalancePayload(eventSeries, input)

		if err := tx.Create(eventSeries).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		created = eventSeries
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateIncomeEvent replaces the fields of an existing income event.
func (s *eventSeriesService) UpdateIncomeEvent(ownerID, eventID string, input IncomeEventInput) (*models.EventSeries, error) {
	eventSeries, err := s.getForUpdate(s.db, ownerID, eventID, models.EventTypeIncome)
	if err != nil {
		return nil, err
	}
	if err := validateEnvelope(input.EventSeriesInput); err != nil {
		return nil, err
	}
	if err := validateAmountFields(input.InitialAmount, input.AnnualChange, input.UserPercentage); err != nil {
		return nil, err
	}
	if err := s.validateReference(s.db, eventSeries.ScenarioID, input.ReferenceEventSeriesID, eventID); err != nil {
		return nil, err
	}

	applyEnvelope(eventSeries, input.EventSeriesInput)
	eventSeries.InitialAmount = &input.InitialAmount
	eventSeries.AnnualChange = input.AnnualChange
	eventSeries.InflationAdjusted = input.InflationAdjusted
	eventSeries.UserPercentage = input.UserPercentage
	eventSeries.IsSocialSecurity = input.IsSocialSecurity

	if err := s.db.Save(eventSeries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return eventSeries, nil
}

// UpdateExpenseEvent replaces the fields of an existing expense event.
func (s *eventSeriesService) UpdateExpenseEvent(ownerID, eventID string, input ExpenseEventInput) (*models.EventSeries, error) {
	eventSeries, err := s.getForUpdate(s.db, ownerID, eventID, models.EventTypeExpense)
	if err != nil {
		return nil, err
	}
	if err := validateEnvelope(input.EventSeriesInput); err != nil {
		return nil, err
	}
	if err := validateAmountFields(input.InitialAmount, input.AnnualChange, input.UserPercentage); err != nil {
		return nil, err
	}
	if err := s.validateReference(s.db, eventSeries.ScenarioID, input.ReferenceEventSeriesID, eventID); err != nil {
		return nil, err
	}

	applyEnvelope(eventSeries, input.EventSeriesInput)
	eventSeries.InitialAmount = &input.InitialAmount
	eventSeries.AnnualChange = input.AnnualChange
	eventSeries.InflationAdjusted = input.InflationAdjusted
	eventSeries.UserPercentage = input.UserPercentage
	eventSeries.IsDiscretionary = input.IsDiscretionary

	if err := s.db.Save(eventSeries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return eventSeries, nil
}

// UpdateInvestEvent replaces the fields of an existing invest event,
// re-checking exclusivity when the event stays or becomes active.
func (s *eventSeriesService) UpdateInvestEvent(ownerID, eventID string, input InvestEventInput) (*models.EventSeries, error) {
	var updated *models.EventSeries
	err := s.db.Transaction(func(tx *gorm.DB) error {
		eventSeries, err := s.getForUpdate(tx, ownerID, eventID, models.EventTypeInvest)
		if err != nil {
			return err
		}
		if err := validateEnvelope(input.EventSeriesInput); err != nil {
			return err
		}
		if err := s.validateReference(tx, eventSeries.ScenarioID, input.ReferenceEventSeriesID, eventID); err != nil {
			return err
		}
		if err := validateInvestPayload(tx, eventSeries.ScenarioID, input); err != nil {
			return err
		}
		if input.IsActive {
			if err := checkNoActiveInvestEvent(tx, eventSeries.ScenarioID, eventID); err != nil {
				return err
			}
		}

		applyEnvelope(eventSeries, input.EventSeriesInput)
		applyInvestPayload(eventSeries, input)

		if err := tx.Save(eventSeries).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updated = eventSeries
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateRebalanceEvent replaces the fields of an existing rebalance event,
// re-checking per-tax-status exclusivity when the event stays or becomes active.
func (s *eventSeriesService) UpdateRebalanceEvent(ownerID, eventID string, input RebalanceEventInput) (*models.EventSeries, error) {
	var updated *models.EventSeries
	err := s.db.Transaction(func(tx *gorm.DB) error {
		eventSeries, err := s.getForUpdate(tx, ownerID, eventID, models.EventTypeRebalance)
		if err != nil {
			return err
		}
		if err := validateEnvelope(input.EventSeriesInput); err != nil {
			return err
		}
		if err := s.validateReference(tx, eventSeries.ScenarioID, input.ReferenceEventSeriesID, eventID); err != nil {
			return err
		}
		if err := validateRebalancePayload(tx, eventSeries.ScenarioID, input); err != nil {
			return err
		}
		if input.IsActive {
			if err := checkNoActiveRebalanceEvent(tx, eventSeries.ScenarioID, input.TargetTaxStatus, eventID); err != nil {
				return err
			}
		}

		applyEnvelope(eventSeries, input.EventSeriesInput)
		applyRebalancePayload(eventSeries, input)

		if err := tx.Save(eventSeries).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updated = eventSeries
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetEventSeriesByID retrieves an event series owned (via its scenario) by the user.
func (s *eventSeriesService) GetEventSeriesByID(ownerID, eventID string) (*models.EventSeries, error) {
	return s.ownedEventSeries(s.db, ownerID, eventID)
}

// GetScenarioEventSeries lists the scenario's event series ordered by
// order index then name, optionally filtered by type.
func (s *eventSeriesService) GetScenarioEventSeries(ownerID, scenarioID string, eventType *models.EventSeriesType) ([]models.EventSeries, error) {
	if _, err := ownedScenario(s.db, scenarioID, ownerID); err != nil {
		return nil, err
	}

	query := s.db.Where("scenario_id = ?", scenarioID)
	if eventType != nil {
		query = query.Where("event_type = ?", *eventType)
	}

	var series []models.EventSeries
	if err := query.Order("order_index, name").Find(&series).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return series, nil
}

// DeleteEventSeries deletes an event series unless another event series in
// the scenario still references it.
func (s *eventSeriesService) DeleteEventSeries(ownerID, eventID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		eventSeries, err := s.ownedEventSeries(tx, ownerID, eventID)
		if err != nil {
			return err
		}

		var referencing int64
		if err := tx.Model(&models.EventSeries{}).
			Where("reference_event_series_id = ?", eventID).
			Count(&referencing).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if referencing > 0 {
			return apperrors.ErrEventSeriesInUse
		}

		if err := tx.Delete(eventSeries).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// ownedEventSeries loads an event series and verifies, through its scenario,
// that it belongs to the requesting user.
func (s *eventSeriesService) ownedEventSeries(tx *gorm.DB, ownerID, eventID string) (*models.EventSeries, error) {
	var eventSeries models.EventSeries
	if err := tx.Where("id = ?", eventID).First(&eventSeries).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventSeriesNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if _, err := ownedScenario(tx, eventSeries.ScenarioID, ownerID); err != nil {
		return nil, apperrors.ErrEventSeriesNotFound
	}
	return &eventSeries, nil
}

// getForUpdate loads an owned event series and checks it has the expected type.
func (s *eventSeriesService) getForUpdate(tx *gorm.DB, ownerID, eventID string, expected models.EventSeriesType) (*models.EventSeries, error) {
	eventSeries, err := s.ownedEventSeries(tx, ownerID, eventID)
	if err != nil {
		return nil, err
	}
	if eventSeries.EventType != expected {
		return nil, apperrors.ErrEventSeriesNotFound
	}
	return eventSeries, nil
}

// validateReference checks that a reference target exists in the same
// scenario and that following the chain from it never returns to the
// candidate event or revisits a node. selfID is empty on create.
func (s *eventSeriesService) validateReference(tx *gorm.DB, scenarioID string, referenceID *string, selfID string) error {
	if referenceID == nil || *referenceID == "" {
		return nil
	}
	if selfID != "" && *referenceID == selfID {
		return apperrors.ErrEventSeriesCycle
	}

	visited := map[string]bool{}
	current := *referenceID
	for {
		var ref models.EventSeries
		if err := tx.Select("id, reference_event_series_id").
			Where("id = ? AND scenario_id = ?", current, scenarioID).
			First(&ref).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrReferenceEventNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		visited[current] = true

		if ref.ReferenceEventSeriesID == nil || *ref.ReferenceEventSeriesID == "" {
			return nil
		}
		next := *ref.ReferenceEventSeriesID
		if next == selfID || visited[next] {
			return apperrors.ErrEventSeriesCycle
		}
		current = next
	}
}

// checkNoActiveInvestEvent enforces invest-event exclusivity: at most one
// active invest event per scenario. The check is existence-based and does
// not consult start year or duration.
func checkNoActiveInvestEvent(tx *gorm.DB, scenarioID, excludeID string) error {
	query := tx.Model(&models.EventSeries{}).
		Where("scenario_id = ? AND event_type = ? AND is_active = ?", scenarioID, models.EventTypeInvest, true)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrActiveInvestEventExists
	}
	return nil
}

// checkNoActiveRebalanceEvent enforces rebalance exclusivity: at most one
// active rebalance event per (scenario, target tax status).
func checkNoActiveRebalanceEvent(tx *gorm.DB, scenarioID string, taxStatus models.AccountTaxStatus, excludeID string) error {
	query := tx.Model(&models.EventSeries{}).
		Where("scenario_id = ? AND event_type = ? AND target_tax_status = ? AND is_active = ?",
			scenarioID, models.EventTypeRebalance, taxStatus, true)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrActiveRebalanceEventExists
	}
	return nil
}

// validateEnvelope checks the timing distributions shared by all event types.
func validateEnvelope(input EventSeriesInput) error {
	if input.StartYear != nil {
		if err := input.StartYear.Validate("start_year"); err != nil {
			return err
		}
	}
	if input.Duration != nil {
		if err := input.Duration.Validate("duration"); err != nil {
			return err
		}
	}
	return nil
}

// validateAmountFields checks the income/expense payload bounds.
func validateAmountFields(initialAmount decimal.Decimal, annualChange *models.Distribution, userPercentage *decimal.Decimal) error {
	if initialAmount.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrValidation, "Initial amount cannot be negative")
	}
	if annualChange != nil {
		if err := annualChange.Validate("annual_change"); err != nil {
			return err
		}
	}
	if userPercentage != nil && (userPercentage.IsNegative() || userPercentage.GreaterThan(hundredPercent)) {
		return apperrors.WithMessage(apperrors.ErrValidation, "User percentage must be between 0 and 100")
	}
	return nil
}

// validateInvestPayload checks the allocation rules of an invest event.
// Glide-path events validate all three maps against the scenario.
func validateInvestPayload(tx *gorm.DB, scenarioID string, input InvestEventInput) error {
	if err := checkAssetAllocation(tx, scenarioID, input.AssetAllocation, nil); err != nil {
		return err
	}
	if input.IsGlidePath {
		if err := checkGlidePath(input.InitialAllocation, input.FinalAllocation); err != nil {
			return err
		}
		if err := checkAssetAllocation(tx, scenarioID, input.InitialAllocation, nil); err != nil {
			return err
		}
		if err := checkAssetAllocation(tx, scenarioID, input.FinalAllocation, nil); err != nil {
			return err
		}
	}
	if input.MaximumCash != nil && input.MaximumCash.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrValidation, "Maximum cash cannot be negative")
	}
	return nil
}

// validateRebalancePayload checks the allocation rules of a rebalance event;
// every referenced investment must carry the target tax status.
func validateRebalancePayload(tx *gorm.DB, scenarioID string, input RebalanceEventInput) error {
	if err := checkAssetAllocation(tx, scenarioID, input.AssetAllocation, &input.TargetTaxStatus); err != nil {
		return err
	}
	if input.IsGlidePath {
		if err := checkGlidePath(input.InitialAllocation, input.FinalAllocation); err != nil {
			return err
		}
		if err := checkAssetAllocation(tx, scenarioID, input.InitialAllocation, &input.TargetTaxStatus); err != nil {
			return err
		}
		if err := checkAssetAllocation(tx, scenarioID, input.FinalAllocation, &input.TargetTaxStatus); err != nil {
			return err
		}
	}
	return nil
}

// newEnvelope builds an event series row from the common envelope fields.
func newEnvelope(scenarioID string, eventType models.EventSeriesType, input EventSeriesInput) *models.EventSeries {
	return &models.EventSeries{
		ScenarioID:             scenarioID,
		Name:                   input.Name,
		Description:            input.Description,
		EventType:              eventType,
		StartYear:              input.StartYear,
		Duration:               input.Duration,
		StartTimingType:        input.StartTimingType,
		ReferenceEventSeriesID: input.ReferenceEventSeriesID,
		IsActive:               input.IsActive,
		OrderIndex:             input.OrderIndex,
	}
}

// applyEnvelope overwrites the common envelope fields on update.
func applyEnvelope(eventSeries *models.EventSeries, input EventSeriesInput) {
	eventSeries.Name = input.Name
	eventSeries.Description = input.Description
	eventSeries.StartYear = input.StartYear
	eventSeries.Duration = input.Duration
	eventSeries.StartTimingType = input.StartTimingType
	eventSeries.ReferenceEventSeriesID = input.ReferenceEventSeriesID
	eventSeries.IsActive = input.IsActive
	eventSeries.OrderIndex = input.OrderIndex
}

func applyInvestPayload(eventSeries *models.EventSeries, input InvestEventInput) {
	eventSeries.AssetAllocation = input.AssetAllocation
	eventSeries.IsGlidePath = input.IsGlidePath
	eventSeries.InitialAllocation = input.InitialAllocation
	eventSeries.FinalAllocation = input.FinalAllocation
	eventSeries.MaximumCash = input.MaximumCash
}

func applyRebalancePayload(eventSeries *models.EventSeries, input RebalanceEventInput) {
	eventSeries.AssetAllocation = input.AssetAllocation
	eventSeries.IsGlidePath = input.IsGlidePath
	eventSeries.InitialAllocation = input.InitialAllocation
	eventSeries.FinalAllocation = input.FinalAllocation
	taxStatus := input.TargetTaxStatus
	eventSeries.TargetTaxStatus = &taxStatus
}
