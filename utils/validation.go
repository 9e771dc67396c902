// utils/validation.go
package utils

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	// Clean the phone number
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")

	// Regular expression for international phone numbers
	// Allows + prefix followed by 7-15 digits
	regex := `^\+?[1-9]\d{1,14}$`
	match, _ := regexp.MatchString(regex, cleaned)
	return match
}

// RegisterCustomValidators wires the ledger date formats into gin's
// binding layer so request structs can use `binding:"ledgerdate"` and
// `binding:"ledgermonth"` tags.
func RegisterCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("ledgerdate", func(fl validator.FieldLevel) bool {
		return IsValidDate(fl.Field().String())
	})
	v.RegisterValidation("ledgermonth", func(fl validator.FieldLevel) bool {
		return IsValidMonth(fl.Field().String())
	})
}
