package handlers

import (
	"restro_backend/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterCustomValidators wires domain validators into gin's binding engine.
// Call once during startup.
func RegisterCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// decimalqty: string field must parse as a positive decimal quantity.
	v.RegisterValidation("decimalqty", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.IsPositive()
	})

	// paymentmethod: one of the accepted till payment methods.
	v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case models.PaymentMethodCash, models.PaymentMethodCard, models.PaymentMethodUPI, models.PaymentMethodCredit:
			return true
		default:
			return false
		}
	})

	// activitycategory: a known inventory ledger category.
	v.RegisterValidation("activitycategory", func(fl validator.FieldLevel) bool {
		return models.IsValidActivityCategory(fl.Field().String())
	})
}
