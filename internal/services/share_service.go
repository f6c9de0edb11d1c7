package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "shallowfind/internal/errors"
	"shallowfind/internal/models"
)

// shareService handles scenario sharing.
type shareService struct {
	db *gorm.DB
}

// NewShareService creates a new ShareServicer.
func NewShareService(db *gorm.DB) ShareServicer {
	return &shareService{db: db}
}

// CreateShare grants another user access to the scenario. Only the owner can
// share, self-shares are rejected, and at most one share may exist per
// recipient.
func (s *shareService) CreateShare(ownerID, scenarioID, sharedWithUserID string, permission models.SharePermission) (*models.ScenarioShare, error) {
	var created *models.ScenarioShare
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := ownedScenario(tx, scenarioID, ownerID); err != nil {
			return err
		}
		if sharedWithUserID == ownerID {
			return apperrors.WithMessage(apperrors.ErrValidation, "Cannot share a scenario with yourself")
		}

		var recipient models.User
		if err := tx.Where("id = ?", sharedWithUserID).First(&recipient).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var existing int64
		if err := tx.Model(&models.ScenarioShare{}).
			Where("scenario_id = ? AND shared_with_user_id = ?", scenarioID, sharedWithUserID).
			Count(&existing).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if existing > 0 {
			return apperrors.ErrDuplicateShare
		}

		share := &models.ScenarioShare{
			ScenarioID:       scenarioID,
			SharedWithUserID: sharedWithUserID,
			SharedByUserID:   ownerID,
			Permission:       permission,
			IsActive:         true,
		}
		if err := tx.Create(share).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		created = share
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetScenarioShares lists the shares on a scenario the user owns.
func (s *shareService) GetScenarioShares(ownerID, scenarioID string) ([]models.ScenarioShare, error) {
	if _, err := ownedScenario(s.db, scenarioID, ownerID); err != nil {
		return nil, err
	}

	var shares []models.ScenarioShare
	if err := s.db.Where("scenario_id = ?", scenarioID).
		Order("created_at").
		Find(&shares).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return shares, nil
}

// RevokeShare removes a share. Only the scenario owner can revoke.
func (s *shareService) RevokeShare(ownerID, shareID string) error {
	var share models.ScenarioShare
	if err := s.db.Where("id = ?", shareID).First(&share).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrShareNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if _, err := ownedScenario(s.db, share.ScenarioID, ownerID); err != nil {
		return apperrors.ErrShareNotFound
	}

	if err := s.db.Delete(&share).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
