// Package schema provides declarative, per-operation validation rule sets
// and a validator that projects raw decoded JSON onto them.
//
// A RuleSet is an ordered list of field rules built once at startup:
//
//	create := schema.NewRuleSet("create",
//	    schema.String("clientName", "Client name").Required().Trim(),
//	    schema.String("clientEmail", "Client email").Required().Format("email", "Invalid email format"),
//	    schema.Enum("priority", "Priority", "Low", "High").Required(),
//	    schema.Literal("termsAccepted", true, "You must accept the terms"),
//	)
//
// Validation collects every violation instead of stopping at the first one,
// applies trim transformations, and drops input keys the rule set does not
// declare:
//
//	res := v.Validate(create, raw)
//	if !res.OK() {
//	    return res.Err() // *domain.ValidationError
//	}
//	name, _ := res.Values().String("clientName")
//
// RuleSets are immutable and safe for concurrent use, as is Validator.
package schema

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindEnum
	kindLiteral
)

// Field is a single field rule. Builder methods return modified copies, so a
// Field value can be shared between rule sets without aliasing.
type Field struct {
	name     string
	label    string
	kind     fieldKind
	required bool
	trim     bool
	nonEmpty bool
	format   string
	pattern  *regexp.Regexp
	oneOf    []string
	literal  any
	msgs     messages
}

type messages struct {
	required string
	empty    string
	format   string
	oneOf    string
	literal  string
}

// String declares a string field. The label is used in default messages.
func String(name, label string) Field {
	return Field{name: name, label: label, kind: kindString}
}

// Enum declares a string field restricted to the allowed values.
func Enum(name, label string, allowed ...string) Field {
	return Field{name: name, label: label, kind: kindEnum, oneOf: slices.Clone(allowed)}
}

// Literal declares a required field that must equal value exactly. The same
// message is reported when the field is missing or holds anything else.
func Literal(name string, value any, message string) Field {
	return Field{
		name:     name,
		label:    name,
		kind:     kindLiteral,
		required: true,
		literal:  value,
		msgs:     messages{required: message, literal: message},
	}
}

// Required marks the field as mandatory.
func (f Field) Required() Field {
	f.required = true
	return f
}

// Optional marks the field as optional. Absence means "leave unchanged".
func (f Field) Optional() Field {
	f.required = false
	return f
}

// Trim strips leading and trailing whitespace before any further check. The
// trimmed value is what appears in the sanitized output.
func (f Field) Trim() Field {
	f.trim = true
	return f
}

// NonEmpty rejects a present but empty (after trimming) optional string.
func (f Field) NonEmpty(message string) Field {
	f.nonEmpty = true
	f.msgs.empty = message
	return f
}

// Format checks the value against a go-playground/validator tag such as
// "email".
func (f Field) Format(tag, message string) Field {
	f.format = tag
	f.msgs.format = message
	return f
}

// Pattern checks the value against a regular expression.
func (f Field) Pattern(re *regexp.Regexp, message string) Field {
	f.pattern = re
	f.msgs.format = message
	return f
}

// RequiredMessage overrides the message reported when a required field is missing.
func (f Field) RequiredMessage(message string) Field {
	f.msgs.required = message
	return f
}

// OneOfMessage overrides the message reported when an enum value is not allowed.
func (f Field) OneOfMessage(message string) Field {
	f.msgs.oneOf = message
	return f
}

func (f Field) requiredMessage() string {
	if f.msgs.required != "" {
		return f.msgs.required
	}
	return fmt.Sprintf("%s is required", f.label)
}

func (f Field) typeMessage() string {
	return fmt.Sprintf("%s must be a string", f.label)
}

func (f Field) emptyMessage() string {
	if f.msgs.empty != "" {
		return f.msgs.empty
	}
	return fmt.Sprintf("%s must be a non-empty string", f.label)
}

func (f Field) formatMessage() string {
	if f.msgs.format != "" {
		return f.msgs.format
	}
	return fmt.Sprintf("Invalid %s format", strings.ToLower(f.label))
}

func (f Field) oneOfMessage() string {
	if f.msgs.oneOf != "" {
		return f.msgs.oneOf
	}
	return fmt.Sprintf("Invalid %s. Must be one of: %s", strings.ToLower(f.label), strings.Join(f.oneOf, ", "))
}

// RuleSet is an ordered, immutable set of field rules for one operation.
type RuleSet struct {
	fields []Field
}

// NewRuleSet creates a rule set. Field order determines violation order.
// A field name declared twice panics, since that is a programming error.
func NewRuleSet(name string, fields ...Field) *RuleSet {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.name] {
			panic(fmt.Sprintf("schema: rule set %q declares field %q twice", name, f.name))
		}
		seen[f.name] = true
	}
	return &RuleSet{fields: slices.Clone(fields)}
}
