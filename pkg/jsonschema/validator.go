// Package jsonschema validates JSON documents against JSON Schema using
// santhosh-tekuri/jsonschema.
package jsonschema

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const resourceName = "schema.json"

// ValidationErrors represents a collection of validation errors
type ValidationErrors []error

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	msgs := make([]string, 0, len(ve))
	for _, err := range ve {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Compile parses and compiles a schema document.
func Compile(schema string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceName, strings.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	compiled, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return compiled, nil
}

// LoadFile reads a schema document from disk.
func LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read schema %s: %w", path, err)
	}
	return string(data), nil
}

// Validate reports whether doc satisfies schema. An error is returned only
// when the schema or the document cannot be parsed.
func Validate(doc, schema string) (bool, error) {
	compiled, err := Compile(schema)
	if err != nil {
		return false, err
	}
	instance, err := decode(doc)
	if err != nil {
		return false, err
	}
	return compiled.Validate(instance) == nil, nil
}

// ValidateWithErrors is like Validate but returns every violation, one
// error per failing keyword, instead of a bare false.
func ValidateWithErrors(doc, schema string) (bool, ValidationErrors) {
	compiled, err := Compile(schema)
	if err != nil {
		return false, ValidationErrors{err}
	}
	instance, err := decode(doc)
	if err != nil {
		return false, ValidationErrors{err}
	}

	err = compiled.Validate(instance)
	if err == nil {
		return true, nil
	}
	if verr, ok := err.(*jsonschema.ValidationError); ok {
		return false, flatten(verr)
	}
	return false, ValidationErrors{err}
}

func decode(doc string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(doc))
	dec.UseNumber()
	var instance any
	if err := dec.Decode(&instance); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return instance, nil
}

// flatten walks the cause tree and keeps the leaves, which carry the
// concrete keyword failures.
func flatten(err *jsonschema.ValidationError) ValidationErrors {
	if len(err.Causes) == 0 {
		return ValidationErrors{fmt.Errorf("validation error at %s: %s", location(err.InstanceLocation), err.Message)}
	}
	var errs ValidationErrors
	for _, cause := range err.Causes {
		errs = append(errs, flatten(cause)...)
	}
	return errs
}

func location(ptr string) string {
	if ptr == "" {
		return "/"
	}
	return ptr
}
