package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/wine-catalog/internal/domain"
)

// jsonTagParts is the number of parts when splitting a JSON tag by comma.
// The first part is the field name, subsequent parts are options like "omitempty".
const jsonTagParts = 2

// ErrBinding indicates JSON or path binding failed.
var ErrBinding = errors.New("binding failed")

var (
	// validate is the singleton validator instance.
	validate     *validator.Validate
	validateOnce sync.Once
)

// Violation is a single failed validation rule.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator returns the singleton validator instance.
// It initializes the validator with custom validations on first call.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		// Use JSON tag names in error messages
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", jsonTagParts)[0]
			if name == "-" {
				return ""
			}

			return name
		})

		_ = validate.RegisterValidation("notempty", validateNotEmpty)
	})

	return validate
}

// Bind decodes the JSON body into v. Malformed JSON or mismatched types
// yield an error wrapping ErrBinding.
func Bind(c *gin.Context, v any) error {
	err := c.ShouldBindJSON(v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return nil
}

// Violations validates the struct v and returns every failed rule.
// A string failing notempty still has its remaining rules evaluated, so an
// empty value reports both the missing value and the length.
func Violations(v any) []Violation {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Violation{{Message: err.Error()}}
	}

	typ := reflect.Indirect(reflect.ValueOf(v)).Type()
	violations := make([]Violation, 0, len(fieldErrs))

	for _, fe := range fieldErrs {
		rules := ""
		if sf, ok := typ.FieldByName(fe.StructField()); ok {
			rules = sf.Tag.Get("validate")
		}

		violations = append(violations, Violation{
			Field:   fe.Field(),
			Message: violationMessage(fe.StructField(), fe.Tag(), fe.Param(), fe.Kind(), rules),
		})

		if fe.Tag() != "notempty" {
			continue
		}

		violations = append(violations, remainingViolations(fe, rules)...)
	}

	return violations
}

// remainingViolations evaluates the rules after notempty against the
// field's value.
func remainingViolations(fe validator.FieldError, rules string) []Violation {
	_, rest, found := strings.Cut(rules, "notempty")
	rest = strings.TrimPrefix(rest, ",")

	if !found || rest == "" {
		return nil
	}

	var more validator.ValidationErrors
	if !errors.As(Validator().Var(fe.Value(), rest), &more) {
		return nil
	}

	out := make([]Violation, 0, len(more))
	for _, m := range more {
		out = append(out, Violation{
			Field:   fe.Field(),
			Message: violationMessage(fe.StructField(), m.Tag(), m.Param(), m.Kind(), rules),
		})
	}

	return out
}

// ValidationFailure wraps violations found on entity into a domain
// validation error so it travels the same path as every other handled error.
func ValidationFailure(entity string, violations []Violation) error {
	out := make([]domain.Violation, len(violations))
	for i, v := range violations {
		out[i] = domain.Violation{Field: v.Field, Message: v.Message}
	}

	return domain.NewValidationError(entity, out...)
}

func violationsFromDomain(violations []domain.Violation) []Violation {
	out := make([]Violation, len(violations))
	for i, v := range violations {
		out[i] = Violation{Field: v.Field, Message: v.Message}
	}

	return out
}

// ViolationDetails collapses violations into a field → first message map.
func ViolationDetails(violations []Violation) map[string]string {
	details := make(map[string]string, len(violations))
	for _, v := range violations {
		if _, seen := details[v.Field]; !seen {
			details[v.Field] = v.Message
		}
	}

	return details
}

// violationMessages maps validation tags to message templates.
// {field} is the struct field name, {param} the tag parameter.
var violationMessages = map[string]string{
	"required": "{field} is required.",
	"notempty": "{field} is required.",
	"gt":       "{field} must be greater than {param}.",
	"gte":      "{field} must be greater than or equal to {param}.",
	"lt":       "{field} must be less than {param}.",
	"lte":      "{field} must be less than or equal to {param}.",
}

// violationMessage returns a human-readable message for a failed rule.
func violationMessage(field, tag, param string, kind reflect.Kind, rules string) string {
	if (tag == "min" || tag == "max") && kind == reflect.String {
		lo, hi := lengthBounds(rules)
		return fmt.Sprintf("%s must be between %s and %s characters.", field, lo, hi)
	}

	msg, ok := violationMessages[tag]
	if !ok {
		return field + " failed validation: " + tag
	}

	return strings.NewReplacer("{field}", field, "{param}", param).Replace(msg)
}

// lengthBounds extracts the min and max parameters from a validate tag.
func lengthBounds(rules string) (lo, hi string) {
	lo, hi = "0", "∞"

	for rule := range strings.SplitSeq(rules, ",") {
		name, param, ok := strings.Cut(rule, "=")
		if !ok {
			continue
		}

		switch name {
		case "min":
			lo = param
		case "max":
			hi = param
		}
	}

	return lo, hi
}

// validateNotEmpty validates that a string is not empty after trimming whitespace.
func validateNotEmpty(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return strings.TrimSpace(value) != ""
}
