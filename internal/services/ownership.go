package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "shallowfind/internal/errors"
	"shallowfind/internal/models"
)

// ownedScenario resolves a scenario by id and owner. A scenario that exists
// but belongs to someone else yields the same not-found error as a missing
// one, so callers never leak cross-tenant existence.
func ownedScenario(tx *gorm.DB, scenarioID, ownerID string) (*models.Scenario, error) {
	var scenario models.Scenario
	if err := tx.Where("id = ? AND owner_id = ?", scenarioID, ownerID).First(&scenario).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrScenarioNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &scenario, nil
}
