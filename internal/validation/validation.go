// Package validation holds the shared validator instance and its custom rules.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/aura-invites/backend/internal/models"
	apperrors "github.com/aura-invites/backend/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	slugPattern     = regexp.MustCompile(`^[a-z0-9-]+$`)
	hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	clockPattern    = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// Instance returns the shared validator. Field names in errors come from the
// json tag so they match what the client sent.
func Instance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})

		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("single_char", func(fl validator.FieldLevel) bool {
			return utf8.RuneCountInString(fl.Field().String()) == 1
		})

		_ = v.RegisterValidation("hex_rgb", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || hexColorPattern.MatchString(s)
		})

		_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			return clockPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("trimmed_min", func(fl validator.FieldLevel) bool {
			var n int
			if _, err := fmt.Sscan(fl.Param(), &n); err != nil {
				return false
			}
			return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
		})

		_ = v.RegisterValidation("attendance", func(fl validator.FieldLevel) bool {
			return models.AttendanceStatus(fl.Field().String()).Valid()
		})

		_ = v.RegisterValidation("template_id", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || models.TemplateID(s).Valid()
		})

		validateInst = v
	})

	return validateInst
}

// Struct validates s and converts any failure into a ValidationError that
// lists every offending field.
func Struct(s interface{}) error {
	return ToFieldsError(Instance().Struct(s))
}

// ToFieldsError normalizes validator errors into a ValidationError.
func ToFieldsError(err error) error {
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return apperrors.NewValidationError("input", err.Error())
	}
	fields := make(map[string]string, len(ves))
	for _, fe := range ves {
		name := fieldName(fe)
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = message(fe)
	}
	return apperrors.NewFieldsError(fields, err)
}

// fieldName drops the top-level struct name from the namespace so nested
// fields read "schedule_items[0].time".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "trimmed_min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		if fe.Kind() == reflect.Int {
			return fmt.Sprintf("must be at most %s", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be an absolute URL"
	case "slug":
		return "may contain only lowercase letters, digits and hyphens"
	case "single_char":
		return "must be exactly one character"
	case "hex_rgb":
		return "must be a #RRGGBB color"
	case "clock":
		return "must be a HH:MM time"
	case "attendance":
		return "must be one of attending, maybe, not_attending"
	case "template_id":
		return "is not a known template"
	case "datetime":
		return "must match " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return fmt.Sprintf("failed validation for tag '%s'", fe.Tag())
	}
}
