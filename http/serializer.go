package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"unicode"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Kind selects one of the two JSON backends.
type Kind int

const (
	// KindStandard encodes with encoding/json. This is the default backend.
	KindStandard Kind = iota + 1
	// KindV2 encodes with github.com/go-json-experiment/json.
	KindV2
)

func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindV2:
		return "v2"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a backend name to its Kind. Accepted names are
// "standard", "a", "encoding/json", "v2", "b" and "json-v2".
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "standard", "a", "encoding/json", "":
		return KindStandard, nil
	case "v2", "b", "json-v2":
		return KindV2, nil
	default:
		return 0, fmt.Errorf("unknown serializer %q", name)
	}
}

// StandardSettings configure the encoding/json backend.
type StandardSettings struct {
	// EscapeHTML escapes <, > and & inside JSON strings.
	EscapeHTML bool
	// Indent, when non-empty, produces multiline output indented by this string.
	Indent string
	// DisallowUnknownFields fails decoding when an object key has no matching field.
	DisallowUnknownFields bool
	// UseNumber decodes numbers into interface values as json.Number.
	UseNumber bool
	// FailOnCycle makes a value that refers back to itself a
	// SerializationError. By default the looping reference is dropped.
	FailOnCycle bool
}

// DefaultStandardSettings returns the settings a new Serializer starts with.
func DefaultStandardSettings() StandardSettings {
	return StandardSettings{EscapeHTML: true}
}

// V2Settings configure the go-json-experiment backend.
type V2Settings struct {
	// AllowedRanges lists the unicode ranges written verbatim. Every other
	// non-ASCII rune is written as a \uXXXX escape. Nil means the defaults
	// (Basic Latin and the Cyrillic block).
	AllowedRanges []*unicode.RangeTable
	EscapeHTML    bool
	// RejectUnknownMembers fails decoding when an object member has no matching field.
	RejectUnknownMembers bool
	// Deterministic sorts map keys on output.
	Deterministic bool
	Indent        string
}

// DefaultV2Settings returns the settings a new Serializer starts with.
func DefaultV2Settings() V2Settings {
	return V2Settings{AllowedRanges: DefaultAllowedRanges()}
}

// Serializer dispatches JSON encoding and decoding to the selected backend.
// Each backend keeps its own settings; switching backends never clears them.
//
// A Serializer is shared by every Response produced through the client it is
// attached to.
type Serializer struct {
	mu       sync.RWMutex
	kind     Kind
	standard StandardSettings
	v2       V2Settings
	allowed  *unicode.RangeTable
	warn     Sink
}

// NewSerializer creates a Serializer with the standard backend selected and
// default settings for both backends.
func NewSerializer() *Serializer {
	v2 := DefaultV2Settings()
	return &Serializer{
		kind:     KindStandard,
		standard: DefaultStandardSettings(),
		v2:       v2,
		allowed:  mergeRanges(v2.AllowedRanges),
	}
}

// SetKind selects the active backend. Unknown kinds are ignored.
func (s *Serializer) SetKind(kind Kind) *Serializer {
	if kind != KindStandard && kind != KindV2 {
		return s
	}
	s.mu.Lock()
	s.kind = kind
	s.mu.Unlock()
	return s
}

// Kind returns the active backend.
func (s *Serializer) Kind() Kind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kind
}

// SetWarningSink receives a line whenever a settings call is ignored because
// the other backend is active. A nil sink silences the warnings.
func (s *Serializer) SetWarningSink(sink Sink) *Serializer {
	s.mu.Lock()
	s.warn = sink
	s.mu.Unlock()
	return s
}

// SetStandardSettings replaces the encoding/json settings. The call only
// takes effect while KindStandard is active; otherwise it is a no-op that is
// reported to the warning sink.
func (s *Serializer) SetStandardSettings(settings StandardSettings) *Serializer {
	s.mu.Lock()
	active := s.kind
	if active == KindStandard {
		s.standard = settings
	}
	warn := s.warn
	s.mu.Unlock()

	if active != KindStandard {
		warnIgnored(warn, KindStandard, active)
	}
	return s
}

// SetV2Settings replaces the go-json-experiment settings. The call only
// takes effect while KindV2 is active; otherwise it is a no-op that is
// reported to the warning sink.
func (s *Serializer) SetV2Settings(settings V2Settings) *Serializer {
	if settings.AllowedRanges == nil {
		settings.AllowedRanges = DefaultAllowedRanges()
	}
	allowed := mergeRanges(settings.AllowedRanges)

	s.mu.Lock()
	active := s.kind
	if active == KindV2 {
		s.v2 = settings
		s.allowed = allowed
	}
	warn := s.warn
	s.mu.Unlock()

	if active != KindV2 {
		warnIgnored(warn, KindV2, active)
	}
	return s
}

// StandardSettings returns the current encoding/json settings.
func (s *Serializer) StandardSettings() StandardSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.standard
}

// V2Settings returns the current go-json-experiment settings.
func (s *Serializer) V2Settings() V2Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v2
}

// Serialize encodes v with the active backend. A nil value (including typed
// nil pointers, maps and slices) yields an empty string.
func (s *Serializer) Serialize(v any) (string, error) {
	if isNil(v) {
		return "", nil
	}

	s.mu.RLock()
	kind, standard, v2, allowed := s.kind, s.standard, s.v2, s.allowed
	s.mu.RUnlock()

	var (
		out []byte
		err error
	)
	switch kind {
	case KindV2:
		out, err = marshalV2(v, v2, allowed)
	default:
		out, err = marshalStandard(v, standard)
	}
	if err != nil {
		return "", &SerializationError{Kind: kind, Err: err}
	}
	return string(out), nil
}

// Unmarshal decodes data into out, which must be a non-nil pointer. Empty
// data leaves out untouched and never reaches a backend.
func (s *Serializer) Unmarshal(data string, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &DeserializationError{
			Kind:   s.Kind(),
			Target: reflect.TypeOf(out),
			Err:    &json.InvalidUnmarshalError{Type: reflect.TypeOf(out)},
		}
	}
	if data == "" {
		return nil
	}

	s.mu.RLock()
	kind, standard, v2 := s.kind, s.standard, s.v2
	s.mu.RUnlock()

	var err error
	switch kind {
	case KindV2:
		err = jsonv2.Unmarshal([]byte(data), out, jsonv2.RejectUnknownMembers(v2.RejectUnknownMembers))
	default:
		err = unmarshalStandard(data, out, standard)
	}
	if err != nil {
		return &DeserializationError{Kind: kind, Target: rv.Type().Elem(), Err: err}
	}
	return nil
}

// DeserializeString decodes data into a new T with the serializer's active
// backend. Empty data yields the zero value of T.
func DeserializeString[T any](s *Serializer, data string) (T, error) {
	var out T
	if err := s.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func marshalStandard(v any, settings StandardSettings) ([]byte, error) {
	if !settings.FailOnCycle {
		v = dropCycles(v)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(settings.EscapeHTML)
	if settings.Indent != "" {
		enc.SetIndent("", settings.Indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

var errTrailingData = errors.New("unexpected data after top-level JSON value")

func unmarshalStandard(data string, out any, settings StandardSettings) error {
	dec := json.NewDecoder(strings.NewReader(data))
	if settings.DisallowUnknownFields {
		dec.DisallowUnknownFields()
	}
	if settings.UseNumber {
		dec.UseNumber()
	}
	if err := dec.Decode(out); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

func marshalV2(v any, settings V2Settings, allowed *unicode.RangeTable) ([]byte, error) {
	opts := []jsonv2.Options{
		jsontext.EscapeForHTML(settings.EscapeHTML),
		jsonv2.Deterministic(settings.Deterministic),
	}
	if settings.Indent != "" {
		opts = append(opts, jsontext.WithIndent(settings.Indent))
	}

	out, err := jsonv2.Marshal(v, opts...)
	if err != nil {
		return nil, err
	}
	return escapeOutside(out, allowed), nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func warnIgnored(sink Sink, attempted, active Kind) {
	if sink == nil {
		return
	}
	safeLog(sink, fmt.Sprintf("serializer: %s settings ignored while the %s backend is active", attempted, active))
}
