// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var otpCodeRegex = regexp.MustCompile(`^[0-9]{6}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("notification_type", validateNotificationType)
		_ = v.RegisterValidation("payment_gateway", validatePaymentGateway)
		_ = v.RegisterValidation("otp_code", validateOTPCode)
	}
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateNotificationType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "budget_exceeded", "low_balance", "large_expense":
		return true
	}
	return false
}

func validatePaymentGateway(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "stripe", "esewa":
		return true
	}
	return false
}

func validateOTPCode(fl validator.FieldLevel) bool {
	return otpCodeRegex.MatchString(fl.Field().String())
}
