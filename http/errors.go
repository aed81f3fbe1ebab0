package http

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrSerialization matches every *SerializationError via errors.Is.
	ErrSerialization = errors.New("serialization failed")

	// ErrDeserialization matches every *DeserializationError via errors.Is.
	ErrDeserialization = errors.New("deserialization failed")

	// ErrUnsupportedMethod is returned by Do for methods the client does not dispatch.
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")
)

// SerializationError reports a request body that could not be encoded.
// The request is never sent when this error is returned.
type SerializationError struct {
	Kind Kind
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize with %s backend: %v", e.Kind, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

func (e *SerializationError) Is(target error) bool {
	return target == ErrSerialization
}

// DeserializationError reports a JSON document that could not be decoded
// into the requested target type.
type DeserializationError struct {
	Kind   Kind
	Target reflect.Type
	Err    error
}

func (e *DeserializationError) Error() string {
	target := "<nil>"
	if e.Target != nil {
		target = e.Target.String()
	}
	return fmt.Sprintf("deserialize into %s with %s backend: %v", target, e.Kind, e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

func (e *DeserializationError) Is(target error) bool {
	return target == ErrDeserialization
}
