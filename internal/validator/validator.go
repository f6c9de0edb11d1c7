// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("scenario_type", validateScenarioType)
		_ = v.RegisterValidation("scenario_status", validateScenarioStatus)
		_ = v.RegisterValidation("taxability", validateTaxability)
		_ = v.RegisterValidation("tax_status", validateTaxStatus)
		_ = v.RegisterValidation("start_timing_type", validateStartTimingType)
		_ = v.RegisterValidation("strategy_type", validateStrategyType)
		_ = v.RegisterValidation("share_permission", validateSharePermission)
		_ = v.RegisterValidation("event_type", validateEventType)
	}
}

func validateScenarioType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "individual", "married_couple":
		return true
	}
	return false
}

func validateScenarioStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "draft", "active", "archived":
		return true
	}
	return false
}

func validateTaxability(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "taxable", "tax_exempt":
		return true
	}
	return false
}

func validateTaxStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "non_retirement", "pre_tax_retirement", "after_tax_retirement":
		return true
	}
	return false
}

func validateStartTimingType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "same_year", "year_after", "event_series", "distribution":
		return true
	}
	return false
}

func validateStrategyType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "spending", "expense_withdrawal", "rmd", "roth_conversion":
		return true
	}
	return false
}

func validateSharePermission(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "ro", "rw":
		return true
	}
	return false
}

func validateEventType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense", "invest", "rebalance":
		return true
	}
	return false
}
