package validator

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validations
	registerCustomValidations()
}

func registerCustomValidations() {
	// 24-hour "HH:MM" time-of-day
	validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		if v == "" {
			return true
		}
		_, err := time.Parse("15:04", v)
		return err == nil
	})

	// "YYYY-MM-DD" date
	validate.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		if v == "" {
			return true
		}
		_, err := time.Parse("2006-01-02", v)
		return err == nil
	})

	// Booking status validation
	validate.RegisterValidation("booking_status", func(fl validator.FieldLevel) bool {
		status := fl.Field().String()
		validStatuses := []string{"draft", "pending", "confirmed", "cancelled", ""}
		for _, s := range validStatuses {
			if status == s {
				return true
			}
		}
		return false
	})

	// Booking priority validation
	validate.RegisterValidation("booking_priority", func(fl validator.FieldLevel) bool {
		priority := fl.Field().String()
		validPriorities := []string{"standard", "high", "vip", "urgent", ""}
		for _, p := range validPriorities {
			if priority == p {
				return true
			}
		}
		return false
	})

	// Pricing type validation
	validate.RegisterValidation("pricing_type", func(fl validator.FieldLevel) bool {
		pricingType := fl.Field().String()
		validTypes := []string{"hourly", "full_day", "both", ""}
		for _, t := range validTypes {
			if pricingType == t {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "min":
			errors[field] = "Value is too small (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too large (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "hhmm":
			errors[field] = "Invalid time. Use 24-hour HH:MM"
		case "ymd":
			errors[field] = "Invalid date. Use YYYY-MM-DD"
		case "booking_status":
			errors[field] = "Invalid status. Must be: draft, pending, confirmed, or cancelled"
		case "booking_priority":
			errors[field] = "Invalid priority. Must be: standard, high, vip, or urgent"
		case "pricing_type":
			errors[field] = "Invalid pricing type. Must be: hourly, full_day, or both"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
