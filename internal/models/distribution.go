package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	apperrors "shallowfind/internal/errors"
)

// DistributionType tags the shape of an uncertain numeric quantity.
type DistributionType string

const (
	DistributionFixed   DistributionType = "fixed"
	DistributionNormal  DistributionType = "normal"
	DistributionUniform DistributionType = "uniform"
)

// Distribution is a tagged uncertain quantity used for amounts, years,
// durations, and rates. Exactly the fields for its type are set:
// fixed uses Value, normal uses Mean/Stdev, uniform uses Lower/Upper.
//
// The canonical wire names for the uniform bounds are "lower" and "upper";
// "min" and "max" are accepted as aliases on decode only.
type Distribution struct {
	Type  DistributionType `json:"type"`
	Value *decimal.Decimal `json:"value,omitempty"`
	Mean  *decimal.Decimal `json:"mean,omitempty"`
	Stdev *decimal.Decimal `json:"stdev,omitempty"`
	Lower *decimal.Decimal `json:"lower,omitempty"`
	Upper *decimal.Decimal `json:"upper,omitempty"`
}

// distributionAlias mirrors Distribution plus the legacy min/max field names.
type distributionAlias struct {
	Type  DistributionType `json:"type"`
	Value *decimal.Decimal `json:"value"`
	Mean  *decimal.Decimal `json:"mean"`
	Stdev *decimal.Decimal `json:"stdev"`
	Lower *decimal.Decimal `json:"lower"`
	Upper *decimal.Decimal `json:"upper"`
	Min   *decimal.Decimal `json:"min"`
	Max   *decimal.Decimal `json:"max"`
}

// UnmarshalJSON decodes a distribution, mapping the min/max aliases onto
// Lower/Upper when the canonical names are absent.
func (d *Distribution) UnmarshalJSON(data []byte) error {
	var alias distributionAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	d.Type = alias.Type
	d.Value = alias.Value
	d.Mean = alias.Mean
	d.Stdev = alias.Stdev
	d.Lower = alias.Lower
	d.Upper = alias.Upper
	if d.Lower == nil {
		d.Lower = alias.Min
	}
	if d.Upper == nil {
		d.Upper = alias.Max
	}
	return nil
}

// Validate checks the distribution's shape: the tag must be known, the
// fields for that tag must be present, and all quantities must be
// non-negative. Uniform bounds must additionally satisfy lower <= upper.
func (d *Distribution) Validate(field string) error {
	switch d.Type {
	case DistributionFixed:
		if d.Value == nil {
			return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("%s: fixed distribution requires a value", field))
		}
		if d.Value.IsNegative() {
			return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("%s: value cannot be negative", field))
		}
	case DistributionNormal:
		if d.Mean == nil || d.Stdev == nil {
			return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("%s: normal distribution requires mean and stdev", field))
		}
		if d.Mean.IsNegative() {
			return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("%s: mean cannot be negative", field))
		}
		if d.Stdev.IsNegative() {
			return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("%s: stdev cannot be negative", field))
		}
	case DistributionUniform:
		if d.Lower == nil || d.Upper == nil {
			return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("%s: uniform distribution requires lower and upper bounds", field))
		}
		if d.Lower.IsNegative() || d.Upper.IsNegative() {
			return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("%s: bounds cannot be negative", field))
		}
		if d.Lower.GreaterThan(*d.Upper) {
			return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("%s: lower bound must not exceed upper bound", field))
		}
	default:
		return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("%s: unknown distribution type %q", field, d.Type))
	}
	return nil
}

// AllocationMap maps investment IDs to percentage weights that sum to 100.
type AllocationMap map[string]decimal.Decimal
