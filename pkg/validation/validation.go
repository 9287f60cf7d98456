package validation

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"mediapulse/pkg/pagination"
)

var v *validator.Validate

// Validator returns a singleton validator with custom rules registered.
func Validator() *validator.Validate {
	if v == nil {
		v = validator.New()
		// Custom: dataset file path must have a supported tabular extension
		_ = v.RegisterValidation("datafile_ext", func(fl validator.FieldLevel) bool {
			s := strings.ToLower(strings.TrimSpace(fl.Field().String()))
			if s == "" {
				return false
			}
			return strings.HasSuffix(s, ".csv") || strings.HasSuffix(s, ".xlsx")
		})
		// Custom: cursor must be decodable via pagination.DecodeCursor
		_ = v.RegisterValidation("cursor", func(fl validator.FieldLevel) bool {
			s := strings.TrimSpace(fl.Field().String())
			if s == "" {
				return true // empty is allowed; use omitempty with this tag
			}
			if _, err := base64.RawURLEncoding.DecodeString(s); err != nil {
				return false
			}
			_, err := pagination.DecodeCursor(s)
			return err == nil
		})
		// Custom: ISO calendar date (YYYY-MM-DD) for filter bounds
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			s := strings.TrimSpace(fl.Field().String())
			if s == "" {
				return true
			}
			_, err := time.Parse("2006-01-02", s)
			return err == nil
		})
	}
	return v
}

// ValidateStruct validates a struct and returns a user-friendly error string
// suitable for MCP tool errors. Returns empty string when valid.
func ValidateStruct(s any) string {
	if err := Validator().Struct(s); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			fe := ve[0]
			field := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				return fmt.Sprintf("VALIDATION: %s is required", field)
			case "required_without":
				return fmt.Sprintf("VALIDATION: %s is required (or supply cursor)", field)
			case "datafile_ext":
				return "VALIDATION: path must be a .csv or .xlsx file"
			case "cursor":
				return "CURSOR_INVALID: failed to decode cursor; reopen dataset and restart pagination"
			case "isodate":
				return fmt.Sprintf("VALIDATION: %s must be a calendar date like 2024-03-01", field)
			case "min", "max", "gte", "lte":
				return fmt.Sprintf("VALIDATION: %s must satisfy %s=%s", field, fe.Tag(), fe.Param())
			}
			return fmt.Sprintf("VALIDATION: invalid %s", field)
		}
		return "VALIDATION: invalid inputs"
	}
	return ""
}
