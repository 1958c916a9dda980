package schema

import (
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen11/project-intake-service/internal/domain"
)

// Values is the sanitized output of a successful validation. It contains
// only declared fields that were present in the input.
type Values map[string]any

// String returns the string value of name and whether it was present.
func (v Values) String(name string) (string, bool) {
	s, ok := v[name].(string)
	return s, ok
}

// Bool returns the boolean value of name and whether it was present.
func (v Values) Bool(name string) (bool, bool) {
	b, ok := v[name].(bool)
	return b, ok
}

// Result is either Accepted (OK() is true, Values holds the sanitized input)
// or Rejected (Violations holds every violated rule in declaration order).
type Result struct {
	values     Values
	violations []domain.Violation
}

// OK reports whether the input was accepted.
func (r Result) OK() bool { return len(r.violations) == 0 }

// Values returns the sanitized values. Nil when rejected.
func (r Result) Values() Values { return r.values }

// Violations returns the violations. Nil when accepted.
func (r Result) Violations() []domain.Violation { return r.violations }

// Err returns nil when accepted and a *domain.ValidationError otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &domain.ValidationError{Violations: slices.Clone(r.violations)}
}

// Validator applies rule sets to raw input. Format checks are delegated to a
// go-playground/validator engine.
type Validator struct {
	engine *validator.Validate
}

// New creates a Validator.
func New() *Validator {
	return &Validator{engine: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate checks raw against rs. It never short-circuits: every declared
// field is checked and every violation is reported. Undeclared keys in raw
// are dropped from the sanitized output. raw is not modified.
func (v *Validator) Validate(rs *RuleSet, raw map[string]any) Result {
	out := make(Values, len(rs.fields))
	var violations []domain.Violation

	for _, f := range rs.fields {
		value, present := raw[f.name]
		if !present {
			if f.required {
				violations = append(violations, domain.Violation{Field: f.name, Message: f.requiredMessage()})
			}
			continue
		}

		sanitized, msg := v.check(f, value)
		if msg != "" {
			violations = append(violations, domain.Violation{Field: f.name, Message: msg})
			continue
		}
		if sanitized != nil {
			out[f.name] = sanitized
		}
	}

	if len(violations) > 0 {
		return Result{violations: violations}
	}
	return Result{values: out}
}

// check validates one present value. It returns the sanitized value, or a
// violation message. A nil value with no message means "treat as absent".
func (v *Validator) check(f Field, value any) (any, string) {
	switch f.kind {
	case kindLiteral:
		if !reflect.DeepEqual(value, f.literal) {
			return nil, f.msgs.literal
		}
		return value, ""

	case kindEnum:
		s, ok := value.(string)
		if !ok || !slices.Contains(f.oneOf, s) {
			return nil, f.oneOfMessage()
		}
		return s, ""

	default:
		return v.checkString(f, value)
	}
}

func (v *Validator) checkString(f Field, value any) (any, string) {
	s, ok := value.(string)
	if !ok {
		return nil, f.typeMessage()
	}
	if f.trim {
		s = strings.TrimSpace(s)
	}

	if s == "" {
		// Empty counts as absent for required fields.
		if f.required {
			return nil, f.requiredMessage()
		}
		if f.nonEmpty {
			return nil, f.emptyMessage()
		}
	}

	if f.format != "" && v.engine.Var(s, f.format) != nil {
		return nil, f.formatMessage()
	}
	if f.pattern != nil && !f.pattern.MatchString(s) {
		return nil, f.formatMessage()
	}
	return s, ""
}
