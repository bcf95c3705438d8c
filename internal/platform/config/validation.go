package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// EnvironmentProd is the environment in which development defaults are refused.
const EnvironmentProd = "prod"

// validate reports fields by their koanf key so messages name the setting to fix.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return f.Name
		}

		return name
	})

	v.RegisterStructValidation(validateProductionDefaults, Config{})

	return v
}

// ValidationError lists every invalid setting.
type ValidationError struct {
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "config validation failed:\n  " + strings.Join(e.Problems, "\n  ")
}

// Validate checks the whole configuration and returns a *ValidationError
// naming every invalid setting. The service must not start on error.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describe(fe))
	}

	return &ValidationError{Problems: problems}
}

// validateProductionDefaults refuses the published signing key in prod.
func validateProductionDefaults(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(Config)
	if !ok {
		return
	}

	if cfg.App.Environment == EnvironmentProd && cfg.Auth.UsesDefaultSecret() {
		sl.ReportError(cfg.Auth.Secret, "auth.secret", "Secret", "nodefault", "")
	}
}

func describe(fe validator.FieldError) string {
	key := formatFieldPath(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", key, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", key, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", key, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", key, fe.Param())
	case "url":
		return key + " must be a valid URL"
	case "nodefault":
		return key + " must be changed from the development default in " + EnvironmentProd
	default:
		return fmt.Sprintf("%s failed validation: %s", key, fe.Tag())
	}
}

// formatFieldPath drops the root struct name: "Config.server.port" becomes "server.port".
func formatFieldPath(namespace string) string {
	_, key, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}

	return key
}
