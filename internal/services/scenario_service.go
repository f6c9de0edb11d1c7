package services

import (
	"strings"

	"gorm.io/gorm"

	apperrors "shallowfind/internal/errors"
	"shallowfind/internal/models"
	"shallowfind/internal/pagination"
)

// statusRank orders the scenario lifecycle; transitions may only move to a
// strictly higher rank.
var statusRank = map[models.ScenarioStatus]int{
	models.ScenarioStatusDraft:    0,
	models.ScenarioStatusActive:   1,
	models.ScenarioStatusArchived: 2,
}

// scenarioService handles scenario aggregate business logic.
type scenarioService struct {
	db *gorm.DB
}

// NewScenarioService creates a new ScenarioServicer.
func NewScenarioService(db *gorm.DB) ScenarioServicer {
	return &scenarioService{db: db}
}

// CreateScenario creates a scenario owned by the user.
func (s *scenarioService) CreateScenario(ownerID string, input ScenarioInput) (*models.Scenario, error) {
	if err := validateScenarioInput(input); err != nil {
		return nil, err
	}

	scenario := &models.Scenario{
		OwnerID:      ownerID,
		Status:       models.ScenarioStatusDraft,
		ScenarioType: input.ScenarioType,
	}
	applyScenarioInput(scenario, input)

	if err := s.db.Create(scenario).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return scenario, nil
}

// GetUserScenarios returns a page of the user's scenarios, newest first.
func (s *scenarioService) GetUserScenarios(ownerID string, page pagination.PageRequest) (*pagination.PageResponse[models.Scenario], error) {
	page.Defaults()

	var total int64
	if err := s.db.Model(&models.Scenario{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var scenarios []models.Scenario
	if err := s.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&scenarios).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	response := pagination.NewPageResponse(scenarios, page.Page, page.PageSize, total)
	return &response, nil
}

// GetScenarioByID retrieves one of the user's scenarios.
func (s *scenarioService) GetScenarioByID(ownerID, scenarioID string) (*models.Scenario, error) {
	return ownedScenario(s.db, scenarioID, ownerID)
}

// UpdateScenario replaces the writable fields of a scenario. The scenario
// type is fixed at creation; demographic completeness is re-checked against it.
func (s *scenarioService) UpdateScenario(ownerID, scenarioID string, input ScenarioInput) (*models.Scenario, error) {
	scenario, err := ownedScenario(s.db, scenarioID, ownerID)
	if err != nil {
		return nil, err
	}

	input.ScenarioType = scenario.ScenarioType
	if err := validateScenarioInput(input); err != nil {
		return nil, err
	}

	applyScenarioInput(scenario, input)
	if err := s.db.Save(scenario).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return scenario, nil
}

// UpdateScenarioStatus advances the scenario lifecycle. Backward moves are
// rejected; activation additionally requires the scenario's investment types
// to satisfy the cash-type rules.
func (s *scenarioService) UpdateScenarioStatus(ownerID, scenarioID string, status models.ScenarioStatus) (*models.Scenario, error) {
	var updated *models.Scenario
	err := s.db.Transaction(func(tx *gorm.DB) error {
		scenario, err := ownedScenario(tx, scenarioID, ownerID)
		if err != nil {
			return err
		}

		newRank, ok := statusRank[status]
		if !ok {
			return apperrors.WithMessage(apperrors.ErrValidation, "Invalid scenario status")
		}
		if newRank <= statusRank[scenario.Status] {
			return apperrors.ErrInvalidStatusTransition
		}

		if status == models.ScenarioStatusActive {
			if err := validateScenarioCashTypes(tx, scenarioID); err != nil {
				return err
			}
		}

		scenario.Status = status
		if err := tx.Save(scenario).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updated = scenario
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteScenario removes a scenario and all of its children in one
// transaction, so a failed delete never leaves orphans.
func (s *scenarioService) DeleteScenario(ownerID, scenarioID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		scenario, err := ownedScenario(tx, scenarioID, ownerID)
		if err != nil {
			return err
		}

		children := []any{
			&models.EventSeries{},
			&models.Strategy{},
			&models.Investment{},
			&models.InvestmentType{},
			&models.ScenarioShare{},
		}
		for _, child := range children {
			if err := tx.Where("scenario_id = ?", scenarioID).Delete(child).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		if err := tx.Delete(scenario).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// validateScenarioInput checks demographic completeness per scenario type,
// the Roth optimizer window, and field bounds.
func validateScenarioInput(input ScenarioInput) error {
	if input.ScenarioType != models.ScenarioTypeIndividual && input.ScenarioType != models.ScenarioTypeMarriedCouple {
		return apperrors.WithMessage(apperrors.ErrValidation, "Invalid scenario type")
	}

	if input.ScenarioType == models.ScenarioTypeMarriedCouple {
		if input.SpouseBirthYear == nil || input.SpouseLifeExpectancy == nil {
			return apperrors.WithMessage(apperrors.ErrValidation, "Married couple scenarios require spouse birth year and spouse life expectancy")
		}
	} else if input.SpouseBirthYear != nil || input.SpouseLifeExpectancy != nil {
		return apperrors.WithMessage(apperrors.ErrValidation, "Individual scenarios cannot have spouse fields")
	}

	if input.UserLifeExpectancy != nil {
		if err := input.UserLifeExpectancy.Validate("user_life_expectancy"); err != nil {
			return err
		}
	}
	if input.SpouseLifeExpectancy != nil {
		if err := input.SpouseLifeExpectancy.Validate("spouse_life_expectancy"); err != nil {
			return err
		}
	}
	if input.InflationAssumption != nil {
		if err := input.InflationAssumption.Validate("inflation_assumption"); err != nil {
			return err
		}
	}

	if input.FinancialGoal.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrValidation, "Financial goal cannot be negative")
	}
	if input.AnnualContributionLimit.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrValidation, "Annual contribution limit cannot be negative")
	}
	if input.StateOfResidence != "" && len(input.StateOfResidence) != 2 {
		return apperrors.WithMessage(apperrors.ErrValidation, "State of residence must be a two-letter code")
	}

	if input.RothOptimizerEnabled {
		if input.RothOptimizerStartYear == nil || input.RothOptimizerEndYear == nil {
			return apperrors.WithMessage(apperrors.ErrValidation, "Roth optimizer requires start and end years")
		}
	}
	// The window must be ordered whenever both years are present, even while
	// the optimizer is switched off.
	if input.RothOptimizerStartYear != nil && input.RothOptimizerEndYear != nil &&
		*input.RothOptimizerEndYear < *input.RothOptimizerStartYear {
		return apperrors.WithMessage(apperrors.ErrValidation, "Roth optimizer end year must not precede start year")
	}
	return nil
}

func applyScenarioInput(scenario *models.Scenario, input ScenarioInput) {
	scenario.Name = input.Name
	scenario.Description = input.Description
	scenario.UserBirthYear = input.UserBirthYear
	scenario.SpouseBirthYear = input.SpouseBirthYear
	scenario.UserLifeExpectancy = input.UserLifeExpectancy
	scenario.SpouseLifeExpectancy = input.SpouseLifeExpectancy
	scenario.FinancialGoal = input.FinancialGoal
	scenario.StateOfResidence = strings.ToUpper(input.StateOfResidence)
	scenario.InflationAssumption = input.InflationAssumption
	scenario.AnnualContributionLimit = input.AnnualContributionLimit
	scenario.RothOptimizerEnabled = input.RothOptimizerEnabled
	scenario.RothOptimizerStartYear = input.RothOptimizerStartYear
	scenario.RothOptimizerEndYear = input.RothOptimizerEndYear
}
