// Package validation evaluates declarative per-field rule sets against raw
// form or JSON input. Rules are data: each field carries a sanitize flag and
// a go-playground/validator constraint expression, and a single evaluator
// interprets them. Failures accumulate per submission so the caller can
// report every problem in one round-trip.
package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/campuskit/catalog-system/internal/core/domain"
)

var validate = validator.New()

// Field describes the rules for one input field.
type Field struct {
	Name     string
	Required bool
	// Sanitize trims surrounding whitespace and escapes markup-significant
	// characters before constraints run; downstream stages receive the
	// sanitized value.
	Sanitize bool
	// Numeric parses the value as a number before applying Tag constraints.
	Numeric bool
	// Tag is a validator constraint expression, e.g. "min=3,max=50".
	Tag string
}

// RuleSet is the catalogue entry for one form.
type RuleSet struct {
	Name   string
	Fields []Field
}

// Rule sets for the two record kinds. Empty optional values mean "leave
// unchanged" on update and are omitted from the normalized output.
var (
	UserCreate = RuleSet{
		Name: "user_create",
		Fields: []Field{
			{Name: "username", Required: true, Sanitize: true, Tag: "min=3,max=50"},
			{Name: "password", Required: true, Tag: "min=6"},
			{Name: "role", Required: true, Tag: "oneof=admin student"},
		},
	}

	UserUpdate = RuleSet{
		Name: "user_update",
		Fields: []Field{
			{Name: "username", Sanitize: true, Tag: "min=3,max=50"},
			{Name: "password", Tag: "min=6"},
			{Name: "role", Tag: "oneof=admin student"},
		},
	}

	ItemForm = RuleSet{
		Name: "item",
		Fields: []Field{
			{Name: "name", Required: true, Sanitize: true, Tag: "min=1,max=100"},
			{Name: "description", Sanitize: true},
			{Name: "price", Required: true, Numeric: true, Tag: "gte=0"},
		},
	}
)

// Evaluate applies the rule set to raw input. Every field is checked
// independently; all failures are returned together. On success the
// normalized (sanitized) values are what downstream stages must use.
// Evaluation is idempotent: feeding normalized output back in yields the
// same normalized output.
func Evaluate(rs RuleSet, input map[string]string) (map[string]string, []domain.FieldError) {
	normalized := make(map[string]string, len(rs.Fields))
	var failures []domain.FieldError

	for _, f := range rs.Fields {
		value := input[f.Name]
		if f.Sanitize {
			value = SanitizeText(value)
		}

		if value == "" {
			if f.Required {
				failures = append(failures, domain.FieldError{
					Field:   f.Name,
					Message: f.Name + " is required",
				})
			}
			continue
		}

		if msg := checkConstraints(f, value); msg != "" {
			failures = append(failures, domain.FieldError{Field: f.Name, Message: msg})
			continue
		}

		normalized[f.Name] = value
	}

	if len(failures) > 0 {
		return nil, failures
	}
	return normalized, nil
}

func checkConstraints(f Field, value string) string {
	if f.Numeric {
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return f.Name + " must be a number"
		}
		if f.Tag == "" {
			return ""
		}
		if err := validate.Var(n, f.Tag); err != nil {
			return constraintMessage(f, err)
		}
		return ""
	}

	if f.Tag == "" {
		return ""
	}
	if err := validate.Var(value, f.Tag); err != nil {
		return constraintMessage(f, err)
	}
	return ""
}

// constraintMessage converts the first validator failure for a field into a
// human-readable message. Var checks evaluate one constraint expression, so
// per-field there is at most one failure to report.
func constraintMessage(f Field, err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return f.Name + " is invalid"
	}

	fe := ve[0]
	switch fe.Tag() {
	case "min":
		if f.Numeric {
			return fmt.Sprintf("%s must be at least %s", f.Name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", f.Name, fe.Param())
	case "max":
		if f.Numeric {
			return fmt.Sprintf("%s must be at most %s", f.Name, fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s characters", f.Name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", f.Name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s cannot be less than %s", f.Name, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", f.Name, fe.Tag())
	}
}

// escaper rewrites markup-significant characters. The ampersand is left
// alone so sanitization is a fixpoint: re-sanitizing escaped output changes
// nothing. Final encoding belongs to the presentation layer.
var escaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&#34;",
	"'", "&#39;",
)

// SanitizeText trims surrounding whitespace and escapes markup-significant
// characters. Idempotent.
func SanitizeText(s string) string {
	return escaper.Replace(strings.TrimSpace(s))
}

// ParseID parses a numeric path identifier targeting an existing record.
func ParseID(raw string) (int64, *domain.ValidationError) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, domain.NewValidationError(domain.FieldError{
			Field:   "id",
			Message: "id must be a number",
		})
	}
	return id, nil
}
