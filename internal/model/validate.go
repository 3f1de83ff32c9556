package model

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validateOnce sync.Once
	validateInst *validator.Validate
)

// getValidator lazily builds a package-wide validator instance with the
// custom decimal rule registered, mirroring the validator.New().Struct(...)
// pattern the retrieval pack uses at its HTTP boundary — here applied at the
// engine's submission boundary instead.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("decimalgte0", validateDecimalGTE0)
		validateInst = v
	})
	return validateInst
}

// validateDecimalGTE0 rejects a negative decimal.Decimal field. Zero is
// valid: it is the Market-order price sentinel (spec.md §3).
func validateDecimalGTE0(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return !d.IsNegative()
}
