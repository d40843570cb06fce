// Package entity holds record shapes and validation shared by the catalog
// domains. Every upload-backed record references its binary through an Asset.
package entity

import (
	"strings"
	"time"
)

// Asset describes one uploaded binary's location in object storage.
type Asset struct {
	URL          string `json:"url"`
	Path         string `json:"path"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName,omitempty"`
}

// Field is one required-field check: Message is reported when Present is false.
type Field struct {
	Message string
	Present bool
}

// Require builds a Field check.
func Require(message string, present bool) Field {
	return Field{Message: message, Present: present}
}

// Missing collects the messages of every failing check, in declaration order.
// Callers report all violations at once, never just the first.
func Missing(fields ...Field) []string {
	var errs []string
	for _, f := range fields {
		if !f.Present {
			errs = append(errs, f.Message)
		}
	}
	return errs
}

// ValidationError carries the full ordered list of violation messages.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, ", ")
}

// Validation wraps a non-empty violation list into a ValidationError,
// returning nil when there are no violations.
func Validation(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}

// Timestamp returns the current time formatted the way records store it.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
