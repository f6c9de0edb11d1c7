package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "shallowfind/internal/errors"
	"shallowfind/internal/models"
)

var (
	hundredPercent         = decimal.NewFromInt(100)
	allocationSumTolerance = decimal.NewFromFloat(0.01)
)

// checkAssetAllocation validates an allocation map against the scenario:
// it must be non-empty, its percentages must sum to 100 within tolerance,
// and every key must resolve to an investment of the given scenario (and of
// the given tax status when one is required).
//
// Callers must have resolved scenario ownership before invoking this; the
// membership query is scoped by scenario id only.
func checkAssetAllocation(tx *gorm.DB, scenarioID string, allocation models.AllocationMap, taxStatus *models.AccountTaxStatus) error {
	if len(allocation) == 0 {
		return apperrors.WithMessage(apperrors.ErrValidation, "Asset allocation cannot be empty")
	}

	sum := decimal.Zero
	for _, pct := range allocation {
		sum = sum.Add(pct)
	}
	if sum.Sub(hundredPercent).Abs().GreaterThan(allocationSumTolerance) {
		return apperrors.WithMessage(apperrors.ErrValidation, "Asset allocation percentages must sum to 100")
	}

	ids := make([]string, 0, len(allocation))
	for id := range allocation {
		ids = append(ids, id)
	}

	query := tx.Model(&models.Investment{}).Where("id IN ? AND scenario_id = ?", ids, scenarioID)
	if taxStatus != nil {
		query = query.Where("tax_status = ?", *taxStatus)
	}

	var valid int64
	if err := query.Count(&valid).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if valid != int64(len(ids)) {
		if taxStatus != nil {
			return apperrors.WithMessage(apperrors.ErrValidation,
				fmt.Sprintf("One or more investments in allocation do not exist in this scenario or do not have tax status %s", *taxStatus))
		}
		return apperrors.WithMessage(apperrors.ErrValidation, "One or more investments in allocation do not exist in this scenario")
	}
	return nil
}

// checkGlidePath validates glide-path symmetry: both allocations must be
// present and reference exactly the same set of investment ids. Order is
// irrelevant; only the key sets matter.
func checkGlidePath(initial, final models.AllocationMap) error {
	if initial == nil || final == nil {
		return apperrors.WithMessage(apperrors.ErrValidation, "Both initial and final allocations are required for glide paths")
	}
	if len(initial) != len(final) {
		return apperrors.WithMessage(apperrors.ErrValidation, "Initial and final allocations must contain the same investments")
	}
	for id := range initial {
		if _, ok := final[id]; !ok {
			return apperrors.WithMessage(apperrors.ErrValidation, "Initial and final allocations must contain the same investments")
		}
	}
	return nil
}
