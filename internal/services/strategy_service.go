package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "shallowfind/internal/errors"
	"shallowfind/internal/models"
)

// strategyService handles strategy business logic.
type strategyService struct {
	db *gorm.DB
}

// NewStrategyService creates a new StrategyServicer.
func NewStrategyService(db *gorm.DB) StrategyServicer {
	return &strategyService{db: db}
}

// CreateStrategy creates a strategy whose ordering is resolved against the
// scenario's investments or event series, depending on the strategy type.
func (s *strategyService) CreateStrategy(ownerID, scenarioID string, input StrategyInput) (*models.Strategy, error) {
	if _, err := ownedScenario(s.db, scenarioID, ownerID); err != nil {
		return nil, err
	}
	if err := validateStrategyInput(s.db, scenarioID, input); err != nil {
		return nil, err
	}

	strategy := &models.Strategy{
		ScenarioID:   scenarioID,
		StrategyType: input.StrategyType,
	}
	applyStrategyInput(strategy, input)

	if err := s.db.Create(strategy).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return strategy, nil
}

// GetStrategyByID retrieves a strategy owned (via its scenario) by the user.
func (s *strategyService) GetStrategyByID(ownerID, strategyID string) (*models.Strategy, error) {
	return s.ownedStrategy(s.db, ownerID, strategyID)
}

// GetScenarioStrategies lists the scenario's strategies, optionally filtered
// by type.
func (s *strategyService) GetScenarioStrategies(ownerID, scenarioID string, strategyType *models.StrategyType) ([]models.Strategy, error) {
	if _, err := ownedScenario(s.db, scenarioID, ownerID); err != nil {
		return nil, err
	}

	query := s.db.Where("scenario_id = ?", scenarioID)
	if strategyType != nil {
		query = query.Where("strategy_type = ?", *strategyType)
	}

	var strategies []models.Strategy
	if err := query.Order("strategy_type, name").Find(&strategies).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return strategies, nil
}

// UpdateStrategy replaces the fields of an existing strategy. The strategy
// type is fixed at creation.
func (s *strategyService) UpdateStrategy(ownerID, strategyID string, input StrategyInput) (*models.Strategy, error) {
	strategy, err := s.ownedStrategy(s.db, ownerID, strategyID)
	if err != nil {
		return nil, err
	}

	input.StrategyType = strategy.StrategyType
	if err := validateStrategyInput(s.db, strategy.ScenarioID, input); err != nil {
		return nil, err
	}

	applyStrategyInput(strategy, input)
	if err := s.db.Save(strategy).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return strategy, nil
}

// DeleteStrategy deletes a strategy.
func (s *strategyService) DeleteStrategy(ownerID, strategyID string) error {
	strategy, err := s.ownedStrategy(s.db, ownerID, strategyID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(strategy).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *strategyService) ownedStrategy(tx *gorm.DB, ownerID, strategyID string) (*models.Strategy, error) {
	var strategy models.Strategy
	if err := tx.Where("id = ?", strategyID).First(&strategy).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStrategyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if _, err := ownedScenario(tx, strategy.ScenarioID, ownerID); err != nil {
		return nil, apperrors.ErrStrategyNotFound
	}
	return &strategy, nil
}

// validateStrategyInput checks the ordering list: non-empty, duplicate-free,
// and fully resolvable in the scenario against the entity kind the strategy
// type orders.
func validateStrategyInput(tx *gorm.DB, scenarioID string, input StrategyInput) error {
	if len(input.Ordering) == 0 {
		return apperrors.WithMessage(apperrors.ErrValidation, "Ordering cannot be empty")
	}

	seen := make(map[string]bool, len(input.Ordering))
	for _, id := range input.Ordering {
		if seen[id] {
			return apperrors.WithMessage(apperrors.ErrValidation, "Ordering cannot contain duplicate ids")
		}
		seen[id] = true
	}

	var (
		count int64
		err   error
	)
	if input.StrategyType.OrdersInvestments() {
		err = tx.Model(&models.Investment{}).
			Where("id IN ? AND scenario_id = ?", input.Ordering, scenarioID).
			Count(&count).Error
	} else {
		err = tx.Model(&models.EventSeries{}).
			Where("id IN ? AND scenario_id = ?", input.Ordering, scenarioID).
			Count(&count).Error
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count != int64(len(input.Ordering)) {
		return apperrors.ErrOrderingRefNotFound
	}
	return nil
}

func applyStrategyInput(strategy *models.Strategy, input StrategyInput) {
	strategy.Name = input.Name
	strategy.Description = input.Description
	strategy.IsActive = input.IsActive
	strategy.Ordering = input.Ordering
	strategy.Settings = input.Settings
}
