// Package validate checks request structs and reports field-level violations.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/fundloop/fundloop/internal/apierr"
	"github.com/fundloop/fundloop/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their JSON names.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})

		_ = v.RegisterValidation("reaction", func(fl validator.FieldLevel) bool {
			switch models.ReactionKind(fl.Field().String()) {
			case models.ReactionLike, models.ReactionLove, models.ReactionSupport, models.ReactionCelebrate:
				return true
			}
			return false
		})

		instance = v
	})
	return instance
}

// Struct validates s against its `validate` tags. It returns nil or an
// *apierr.Error of kind KindInvalidRequest listing every violation.
func Struct(s any) error {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierr.Internal(fmt.Errorf("validate: %w", err))
	}

	violations := make([]apierr.Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, apierr.Violation{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: describe(fe),
		})
	}
	return apierr.Invalid("request validation failed", violations...)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must have length %s", fe.Field(), fe.Param())
	case "alpha":
		return fe.Field() + " may only contain letters"
	case "alphanum":
		return fe.Field() + " may only contain letters and digits"
	case "reaction":
		return fe.Field() + " must be one of like, love, support, celebrate"
	case "uuid":
		return fe.Field() + " must be a UUID"
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
