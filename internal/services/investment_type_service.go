package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "shallowfind/internal/errors"
	"shallowfind/internal/models"
)

var one = decimal.NewFromInt(1)

// investmentTypeService handles investment type business logic.
type investmentTypeService struct {
	db *gorm.DB
}

// NewInvestmentTypeService creates a new InvestmentTypeServicer.
func NewInvestmentTypeService(db *gorm.DB) InvestmentTypeServicer {
	return &investmentTypeService{db: db}
}

// CreateInvestmentType creates an investment type in the scenario.
func (s *investmentTypeService) CreateInvestmentType(ownerID, scenarioID string, input InvestmentTypeInput) (*models.InvestmentType, error) {
	if _, err := ownedScenario(s.db, scenarioID, ownerID); err != nil {
		return nil, err
	}
	if err := validateInvestmentTypeInput(input); err != nil {
		return nil, err
	}

	investmentType := &models.InvestmentType{ScenarioID: scenarioID}
	applyInvestmentTypeInput(investmentType, input)

	if err := s.db.Create(investmentType).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return investmentType, nil
}

// GetInvestmentTypeByID retrieves an investment type owned (via its scenario) by the user.
func (s *investmentTypeService) GetInvestmentTypeByID(ownerID, typeID string) (*models.InvestmentType, error) {
	return s.ownedInvestmentType(s.db, ownerID, typeID)
}

// GetScenarioInvestmentTypes lists the scenario's investment types by name.
func (s *investmentTypeService) GetScenarioInvestmentTypes(ownerID, scenarioID string) ([]models.InvestmentType, error) {
	if _, err := ownedScenario(s.db, scenarioID, ownerID); err != nil {
		return nil, err
	}

	var types []models.InvestmentType
	if err := s.db.Where("scenario_id = ?", scenarioID).Order("name").Find(&types).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return types, nil
}

// UpdateInvestmentType replaces the fields of an existing investment type.
func (s *investmentTypeService) UpdateInvestmentType(ownerID, typeID string, input InvestmentTypeInput) (*models.InvestmentType, error) {
	investmentType, err := s.ownedInvestmentType(s.db, ownerID, typeID)
	if err != nil {
		return nil, err
	}
	if err := validateInvestmentTypeInput(input); err != nil {
		return nil, err
	}

	applyInvestmentTypeInput(investmentType, input)
	if err := s.db.Save(investmentType).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return investmentType, nil
}

// DeleteInvestmentType deletes an investment type unless investments still
// hold it.
func (s *investmentTypeService) DeleteInvestmentType(ownerID, typeID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		investmentType, err := s.ownedInvestmentType(tx, ownerID, typeID)
		if err != nil {
			return err
		}

		var holders int64
		if err := tx.Model(&models.Investment{}).
			Where("investment_type_id = ?", typeID).
			Count(&holders).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if holders > 0 {
			return apperrors.ErrInvestmentTypeInUse
		}

		if err := tx.Delete(investmentType).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// ValidateScenarioInvestmentTypes checks the scenario-wide cash rules; it is
// also run when a scenario is activated.
func (s *investmentTypeService) ValidateScenarioInvestmentTypes(ownerID, scenarioID string) error {
	if _, err := ownedScenario(s.db, scenarioID, ownerID); err != nil {
		return err
	}
	return validateScenarioCashTypes(s.db, scenarioID)
}

// validateScenarioCashTypes enforces the scenario-wide rule: exactly one
// investment type marked as cash.
func validateScenarioCashTypes(tx *gorm.DB, scenarioID string) error {
	var cashCount int64
	if err := tx.Model(&models.InvestmentType{}).
		Where("scenario_id = ? AND is_cash = ?", scenarioID, true).
		Count(&cashCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if cashCount != 1 {
		return apperrors.WithMessage(apperrors.ErrValidation, "Exactly one investment type must be marked as cash")
	}
	return nil
}

func (s *investmentTypeService) ownedInvestmentType(tx *gorm.DB, ownerID, typeID string) (*models.InvestmentType, error) {
	var investmentType models.InvestmentType
	if err := tx.Where("id = ?", typeID).First(&investmentType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentTypeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if _, err := ownedScenario(tx, investmentType.ScenarioID, ownerID); err != nil {
		return nil, apperrors.ErrInvestmentTypeNotFound
	}
	return &investmentType, nil
}

// validateInvestmentTypeInput checks per-row rules: valid distributions, an
// expense ratio in [0, 1], and no tax-exempt cash type.
func validateInvestmentTypeInput(input InvestmentTypeInput) error {
	if err := input.ExpectedAnnualReturn.Validate("expected_annual_return"); err != nil {
		return err
	}
	if err := input.ExpectedAnnualIncome.Validate("expected_annual_income"); err != nil {
		return err
	}
	if input.ExpenseRatio.IsNegative() || input.ExpenseRatio.GreaterThan(one) {
		return apperrors.WithMessage(apperrors.ErrValidation, "Expense ratio must be between 0 and 1")
	}
	if input.IsCash && input.Taxability == models.TaxabilityTaxExempt {
		return apperrors.WithMessage(apperrors.ErrValidation, "Cash investment type cannot be tax-exempt")
	}
	return nil
}

func applyInvestmentTypeInput(investmentType *models.InvestmentType, input InvestmentTypeInput) {
	investmentType.Name = input.Name
	investmentType.Description = input.Description
	investmentType.ExpectedAnnualReturn = input.ExpectedAnnualReturn
	investmentType.ExpenseRatio = input.ExpenseRatio
	investmentType.ExpectedAnnualIncome = input.ExpectedAnnualIncome
	investmentType.Taxability = input.Taxability
	investmentType.IsCash = input.IsCash
}
