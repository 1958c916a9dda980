// Package project defines the project entity: a client's request for
// freelance work, together with its category, priority and status enumerations.
package project

import "time"

// Resource is the entity name used in storage failures and client messages.
const Resource = "Project"

// Project is a client's request for freelance work.
type Project struct {
	ID            string
	ClientName    string
	ClientEmail   string
	Category      Category
	Priority      Priority
	Status        Status
	TermsAccepted bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Patch holds the fields of a partial update. A nil field means "leave
// unchanged"; a patch can never clear a field.
type Patch struct {
	ClientName  *string
	ClientEmail *string
	Category    *Category
	Priority    *Priority
	Status      *Status
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.ClientName == nil && p.ClientEmail == nil &&
		p.Category == nil && p.Priority == nil && p.Status == nil
}

// Apply copies every set patch field onto dst.
func (p Patch) Apply(dst *Project) {
	if p.ClientName != nil {
		dst.ClientName = *p.ClientName
	}
	if p.ClientEmail != nil {
		dst.ClientEmail = *p.ClientEmail
	}
	if p.Category != nil {
		dst.Category = *p.Category
	}
	if p.Priority != nil {
		dst.Priority = *p.Priority
	}
	if p.Status != nil {
		dst.Status = *p.Status
	}
}
