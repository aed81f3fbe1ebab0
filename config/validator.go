package config

import (
	"fmt"
	"strings"

	"github.com/wesleyorama2/httpmaster/http"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the dotted path to the invalid field
	Path string

	// Message describes the validation error
	Message string
}

// Error returns the error message.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidateProfile validates the profile and returns a slice of validation
// errors. An empty slice indicates the profile is valid.
//
// Example:
//
//	errors := config.ValidateProfile(profile)
//	for _, err := range errors {
//	    log.Printf("Validation error: %s", err)
//	}
func ValidateProfile(p *Profile) []ValidationError {
	var errors []ValidationError

	if p == nil {
		return []ValidationError{{Path: "profile", Message: "profile is required"}}
	}

	for i, h := range p.Headers {
		path := fmt.Sprintf("headers[%d].name", i)
		switch {
		case h.Name == "":
			errors = append(errors, ValidationError{Path: path, Message: "name is required"})
		case strings.ContainsAny(h.Name, ": \t\r\n"):
			errors = append(errors, ValidationError{
				Path:    path,
				Message: fmt.Sprintf("invalid header name %q", h.Name),
			})
		}
	}

	if p.Timeout != "" {
		d, err := ParseDurationString(p.Timeout)
		if err != nil {
			errors = append(errors, ValidationError{Path: "timeout", Message: err.Error()})
		} else if d < 0 {
			errors = append(errors, ValidationError{Path: "timeout", Message: "timeout cannot be negative"})
		}
	}

	if _, err := http.ParseKind(p.Serializer); err != nil {
		errors = append(errors, ValidationError{
			Path:    "serializer",
			Message: "serializer must be one of: standard, v2",
		})
	}

	if p.V2 != nil {
		for i, name := range p.V2.AllowedRanges {
			if _, err := ResolveRange(name); err != nil {
				errors = append(errors, ValidationError{
					Path:    fmt.Sprintf("v2.allowedRanges[%d]", i),
					Message: err.Error(),
				})
			}
		}
	}

	return errors
}
