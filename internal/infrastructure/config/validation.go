package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateEngine, EngineConfig{})
	return v
}

// validateEngine checks the relations between scheduler settings that
// field tags cannot express
func validateEngine(sl validator.StructLevel) {
	engine := sl.Current().Interface().(EngineConfig)
	if engine.TickInterval > 0 && engine.DefaultTurnDuration > 0 && engine.TickInterval > engine.DefaultTurnDuration {
		sl.ReportError(engine.TickInterval, "TickInterval", "TickInterval", "ltturnwindow", "")
	}
	if engine.Rules.WreckDecayTurns > 0 && engine.Rules.WreckDecayTurns < engine.Rules.RespawnDelayTurns {
		sl.ReportError(engine.Rules.WreckDecayTurns, "WreckDecayTurns", "WreckDecayTurns", "gterespawn", "")
	}
}

// ValidateConfig checks every section and lists all offending fields by
// their dotted path, e.g. "Engine.Rules.LootMax"
func ValidateConfig(cfg *Config) error {
	err := validate.Struct(cfg)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		path := strings.TrimPrefix(fe.Namespace(), "Config.")
		problems = append(problems, fmt.Sprintf("%s: %s", path, describe(fe)))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(problems, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %v", fe.Param(), fe.Value())
	case "ltturnwindow":
		return "must not exceed Engine.DefaultTurnDuration"
	case "gterespawn":
		return "must be at least Engine.Rules.RespawnDelayTurns"
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s=%s (value %v)", fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Sprintf("failed %s (value %v)", fe.Tag(), fe.Value())
	}
}
