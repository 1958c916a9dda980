package dto

import (
	"regexp"

	"github.com/jsamuelsen11/project-intake-service/internal/domain/project"
	"github.com/jsamuelsen11/project-intake-service/internal/platform/schema"
)

// Request field names.
const (
	FieldID            = "id"
	FieldClientName    = "clientName"
	FieldClientEmail   = "clientEmail"
	FieldCategory      = "category"
	FieldPriority      = "priority"
	FieldStatus        = "status"
	FieldTermsAccepted = "termsAccepted"
)

var projectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// ProjectRules holds the validation rule sets for project operations. The
// rule sets are built once and shared read-only across requests.
type ProjectRules struct {
	Create *schema.RuleSet
	Update *schema.RuleSet
	ID     *schema.RuleSet
}

// NewProjectRules builds the create, update and identifier rule sets.
func NewProjectRules() *ProjectRules {
	categories := schema.Enum(FieldCategory, "Category", project.Values(project.Categories)...)
	priorities := schema.Enum(FieldPriority, "Priority", project.Values(project.Priorities)...)
	statuses := schema.Enum(FieldStatus, "Status", project.Values(project.Statuses)...)
	email := schema.String(FieldClientEmail, "Client email").Format("email", "Invalid email format")

	return &ProjectRules{
		Create: schema.NewRuleSet("create",
			schema.String(FieldClientName, "Client name").Required().Trim(),
			email.Required(),
			categories.Required(),
			priorities.Required(),
			schema.Literal(FieldTermsAccepted, true, "You must accept the terms to create a project"),
		),
		Update: schema.NewRuleSet("update",
			schema.String(FieldClientName, "Client name").Trim().NonEmpty("Client name must be a non-empty string"),
			email,
			categories,
			priorities,
			statuses,
		),
		ID: schema.NewRuleSet("id",
			schema.String(FieldID, "Project ID").Required().
				RequiredMessage("Invalid project ID format").
				Pattern(projectIDPattern, "Invalid project ID format"),
		),
	}
}

// ProjectFromValues maps sanitized create values onto a new Project.
func ProjectFromValues(v schema.Values) *project.Project {
	name, _ := v.String(FieldClientName)
	email, _ := v.String(FieldClientEmail)
	category, _ := v.String(FieldCategory)
	priority, _ := v.String(FieldPriority)
	terms, _ := v.Bool(FieldTermsAccepted)

	return &project.Project{
		ClientName:    name,
		ClientEmail:   email,
		Category:      project.Category(category),
		Priority:      project.Priority(priority),
		TermsAccepted: terms,
	}
}

// PatchFromValues maps sanitized update values onto a Patch. Fields absent
// from v stay nil and are left unchanged.
func PatchFromValues(v schema.Values) project.Patch {
	var patch project.Patch
	if s, ok := v.String(FieldClientName); ok {
		patch.ClientName = &s
	}
	if s, ok := v.String(FieldClientEmail); ok {
		patch.ClientEmail = &s
	}
	if s, ok := v.String(FieldCategory); ok {
		c := project.Category(s)
		patch.Category = &c
	}
	if s, ok := v.String(FieldPriority); ok {
		p := project.Priority(s)
		patch.Priority = &p
	}
	if s, ok := v.String(FieldStatus); ok {
		st := project.Status(s)
		patch.Status = &st
	}
	return patch
}
