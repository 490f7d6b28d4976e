package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var semverPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+$`)

// validate is shared by every schema validation function. validator.Validate
// caches struct metadata and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateVersion checks that v follows semantic versioning.
func ValidateVersion(v string) error {
	if !semverPattern.MatchString(v) {
		return fmt.Errorf("version must follow semantic versioning (e.g., 1.0.0)")
	}
	return nil
}

// ValidateQuestion validates a single catalog question.
func ValidateQuestion(q *Question) error {
	if err := validate.Struct(q); err != nil {
		return describe(err)
	}

	switch q.Kind {
	case KindSingleChoice:
		if len(q.Options) == 0 {
			return fmt.Errorf("single-choice question must declare at least one option")
		}
		seen := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if seen[o.Value] {
				return fmt.Errorf("duplicate option value %q", o.Value)
			}
			seen[o.Value] = true
		}
	case KindFreeText:
		if len(q.Options) > 0 {
			return fmt.Errorf("free-text question must not declare options")
		}
	default:
		return fmt.Errorf("invalid question type: %s", q.Kind)
	}

	return nil
}

// ValidateSettings validates organization settings.
func ValidateSettings(s *Settings) error {
	if err := validate.Struct(s); err != nil {
		return describe(err)
	}
	return nil
}

// describe flattens validator field errors into one readable message.
func describe(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(parts, "; "))
}
