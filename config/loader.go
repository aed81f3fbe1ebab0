package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile is a reusable client configuration loaded from YAML or JSON.
type Profile struct {
	// Headers are sent with every request, in order, duplicates included
	Headers []HeaderSpec `json:"headers,omitempty" yaml:"headers,omitempty"`

	// Timeout is the per-request timeout, e.g. "30s" or "30" (seconds)
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// Serializer selects the JSON backend: "standard" or "v2"
	Serializer string `json:"serializer,omitempty" yaml:"serializer,omitempty"`

	// Logging turns request/response log lines on
	Logging bool `json:"logging,omitempty" yaml:"logging,omitempty"`

	// Variables are substituted into header values using {{name}}
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`

	// Standard holds settings for the standard backend
	Standard *StandardSpec `json:"standard,omitempty" yaml:"standard,omitempty"`

	// V2 holds settings for the v2 backend
	V2 *V2Spec `json:"v2,omitempty" yaml:"v2,omitempty"`
}

// HeaderSpec is one configured header.
type HeaderSpec struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// StandardSpec mirrors http.StandardSettings. Nil fields keep the default.
type StandardSpec struct {
	EscapeHTML            *bool  `json:"escapeHTML,omitempty" yaml:"escapeHTML,omitempty"`
	Indent                string `json:"indent,omitempty" yaml:"indent,omitempty"`
	DisallowUnknownFields bool   `json:"disallowUnknownFields,omitempty" yaml:"disallowUnknownFields,omitempty"`
	UseNumber             bool   `json:"useNumber,omitempty" yaml:"useNumber,omitempty"`
	FailOnCycle           bool   `json:"failOnCycle,omitempty" yaml:"failOnCycle,omitempty"`
}

// V2Spec mirrors http.V2Settings. AllowedRanges names Unicode scripts or
// categories ("Latin", "Han", "Lu") plus the blocks "BasicLatin" and
// "CyrillicBlock".
type V2Spec struct {
	AllowedRanges        []string `json:"allowedRanges,omitempty" yaml:"allowedRanges,omitempty"`
	EscapeHTML           bool     `json:"escapeHTML,omitempty" yaml:"escapeHTML,omitempty"`
	RejectUnknownMembers bool     `json:"rejectUnknownMembers,omitempty" yaml:"rejectUnknownMembers,omitempty"`
	Deterministic        bool     `json:"deterministic,omitempty" yaml:"deterministic,omitempty"`
	Indent               string   `json:"indent,omitempty" yaml:"indent,omitempty"`
}

// LoadProfile loads a profile from a file.
//
// The file format is determined by extension:
//   - .yaml, .yml -> YAML
//   - .json -> JSON
func LoadProfile(path string) (*Profile, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return ParseProfile(data, path)
}

// ParseProfile parses profile data. The format is taken from the extension
// of path; anything but .json is read as YAML.
func ParseProfile(data []byte, path string) (*Profile, error) {
	var profile Profile

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &profile); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &profile); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &profile); err != nil {
			return nil, fmt.Errorf("failed to parse config (unknown format %s): %w", ext, err)
		}
	}

	return &profile, nil
}

// ParseDurationString parses a duration string with support for common formats.
//
// Supported formats:
//   - Standard Go duration: "30s", "2m", "1h30m", "500ms"
//   - Seconds as integer: "30" (treated as 30 seconds)
//
// An empty string yields zero.
func ParseDurationString(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(s)
	if err == nil {
		return d, nil
	}

	var seconds int
	var rest string
	if n, _ := fmt.Sscanf(s, "%d%s", &seconds, &rest); n == 1 {
		return time.Duration(seconds) * time.Second, nil
	}

	return 0, fmt.Errorf("invalid duration format: %s", s)
}

// ProcessEnvironment replaces {{name}} placeholders in input with values
// from env. Unknown placeholders are left as they are.
//
// Example:
//
//	token := config.ProcessEnvironment("Bearer {{token}}", map[string]string{
//	    "token": "abc",
//	})
//	// Result: "Bearer abc"
func ProcessEnvironment(input string, env map[string]string) string {
	result := input
	for key, value := range env {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result
}

// MergeEnvironments merges two variable sets, with override taking precedence.
func MergeEnvironments(base, override map[string]string) map[string]string {
	result := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		result[key] = value
	}
	for key, value := range override {
		result[key] = value
	}
	return result
}
