// Package domain contains shared domain types used across entity sub-packages.
// Entity-specific types live in sub-packages (domain/project).
// This root package holds the failure taxonomy (Kind, Error), validation
// failures, and the typed errors persistence adapters report.
package domain
