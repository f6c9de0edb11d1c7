package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "shallowfind/internal/errors"
	"shallowfind/internal/models"
)

// investmentService handles investment business logic.
type investmentService struct {
	db *gorm.DB
}

// NewInvestmentService creates a new InvestmentServicer.
func NewInvestmentService(db *gorm.DB) InvestmentServicer {
	return &investmentService{db: db}
}

// CreateInvestment creates an investment in the scenario. Its investment
// type must belong to the same scenario.
func (s *investmentService) CreateInvestment(ownerID, scenarioID string, input InvestmentInput) (*models.Investment, error) {
	if _, err := ownedScenario(s.db, scenarioID, ownerID); err != nil {
		return nil, err
	}
	if err := validateInvestmentInput(s.db, scenarioID, input); err != nil {
		return nil, err
	}

	investment := &models.Investment{ScenarioID: scenarioID}
	applyInvestmentInput(investment, input)

	if err := s.db.Create(investment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return investment, nil
}

// GetInvestmentByID retrieves an investment owned (via its scenario) by the user.
func (s *investmentService) GetInvestmentByID(ownerID, investmentID string) (*models.Investment, error) {
	return s.ownedInvestment(s.db, ownerID, investmentID)
}

// GetScenarioInvestments lists the scenario's investments in withdrawal order.
func (s *investmentService) GetScenarioInvestments(ownerID, scenarioID string) ([]models.Investment, error) {
	if _, err := ownedScenario(s.db, scenarioID, ownerID); err != nil {
		return nil, err
	}

	var investments []models.Investment
	if err := s.db.Where("scenario_id = ?", scenarioID).
		Order("order_index, name").
		Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return investments, nil
}

// UpdateInvestment replaces the fields of an existing investment.
func (s *investmentService) UpdateInvestment(ownerID, investmentID string, input InvestmentInput) (*models.Investment, error) {
	investment, err := s.ownedInvestment(s.db, ownerID, investmentID)
	if err != nil {
		return nil, err
	}
	if err := validateInvestmentInput(s.db, investment.ScenarioID, input); err != nil {
		return nil, err
	}

	applyInvestmentInput(investment, input)
	if err := s.db.Save(investment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return investment, nil
}

// DeleteInvestment deletes an investment. Allocation maps that reference it
// are not rewritten; they fail validation on their next write.
func (s *investmentService) DeleteInvestment(ownerID, investmentID string) error {
	investment, err := s.ownedInvestment(s.db, ownerID, investmentID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(investment).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *investmentService) ownedInvestment(tx *gorm.DB, ownerID, investmentID string) (*models.Investment, error) {
	var investment models.Investment
	if err := tx.Where("id = ?", investmentID).First(&investment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if _, err := ownedScenario(tx, investment.ScenarioID, ownerID); err != nil {
		return nil, apperrors.ErrInvestmentNotFound
	}
	return &investment, nil
}

// validateInvestmentInput checks value bounds and that the referenced
// investment type exists in the same scenario.
func validateInvestmentInput(tx *gorm.DB, scenarioID string, input InvestmentInput) error {
	if input.CurrentValue.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrValidation, "Current value cannot be negative")
	}
	if input.CostBasis.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrValidation, "Cost basis cannot be negative")
	}

	var count int64
	if err := tx.Model(&models.InvestmentType{}).
		Where("id = ? AND scenario_id = ?", input.InvestmentTypeID, scenarioID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrInvestmentTypeNotFound
	}
	return nil
}

func applyInvestmentInput(investment *models.Investment, input InvestmentInput) {
	investment.InvestmentTypeID = input.InvestmentTypeID
	investment.Name = input.Name
	investment.CurrentValue = input.CurrentValue
	investment.TaxStatus = input.TaxStatus
	investment.CostBasis = input.CostBasis
	investment.OrderIndex = input.OrderIndex
}
