package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/wesleyorama2/httpmaster/http"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (OutputFormat, error) {
	switch OutputFormat(name) {
	case FormatText, FormatJSON, FormatYAML:
		return OutputFormat(name), nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", name)
}

// FormatProvider is an interface for different output formatters
type FormatProvider interface {
	FormatRequest(req RequestInfo) string
	FormatResponse(resp *http.Response) string
	FormatExtractions(results []Extraction) string
	FormatSchema(result SchemaResult) string
}

// RequestInfo describes an outgoing request for display.
type RequestInfo struct {
	Method  string
	URL     string
	Headers []http.Header
	Body    string
}

// Extraction is the outcome of one JSONPath lookup.
type Extraction struct {
	Path  string
	Value string
	Err   error
}

// SchemaResult is the outcome of a schema check.
type SchemaResult struct {
	Valid  bool
	Errors []string
}

// RequestData represents the structured data of an HTTP request
type RequestData struct {
	Method    string            `json:"method" yaml:"method"`
	URL       string            `json:"url" yaml:"url"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body      interface{}       `json:"body,omitempty" yaml:"body,omitempty"`
	Timestamp string            `json:"timestamp" yaml:"timestamp"`
}

// TimingData represents detailed timing information for an HTTP request
type TimingData struct {
	DNSLookup       int64 `json:"dnsLookupMs,omitempty" yaml:"dnsLookupMs,omitempty"`
	TCPConnection   int64 `json:"tcpConnectionMs,omitempty" yaml:"tcpConnectionMs,omitempty"`
	TLSHandshake    int64 `json:"tlsHandshakeMs,omitempty" yaml:"tlsHandshakeMs,omitempty"`
	TimeToFirstByte int64 `json:"timeToFirstByteMs,omitempty" yaml:"timeToFirstByteMs,omitempty"`
	Total           int64 `json:"totalMs" yaml:"totalMs"`
}

// ResponseData represents the structured data of an HTTP response
type ResponseData struct {
	StatusCode    int               `json:"statusCode" yaml:"statusCode"`
	Status        string            `json:"status" yaml:"status"`
	Headers       map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body          interface{}       `json:"body,omitempty" yaml:"body,omitempty"`
	Timing        TimingData        `json:"timing" yaml:"timing"`
	Timestamp     string            `json:"timestamp" yaml:"timestamp"`
	ContentLength int64             `json:"contentLength,omitempty" yaml:"contentLength,omitempty"`
}

// ExtractionData is the structured form of an Extraction.
type ExtractionData struct {
	Path  string `json:"path" yaml:"path"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// SchemaData is the structured form of a SchemaResult.
type SchemaData struct {
	Valid  bool     `json:"valid" yaml:"valid"`
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func requestData(req RequestInfo) RequestData {
	var headers map[string]string
	if len(req.Headers) > 0 {
		headers = make(map[string]string, len(req.Headers))
		for _, h := range req.Headers {
			// duplicates keep the last value
			headers[h.Name] = h.String()
		}
	}

	var body interface{}
	if req.Body != "" {
		if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
			body = req.Body
		}
	}

	return RequestData{
		Method:    req.Method,
		URL:       req.URL,
		Headers:   headers,
		Body:      body,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func responseData(resp *http.Response) ResponseData {
	headers := make(map[string]string)
	for key, values := range resp.Headers() {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	// Parse the body with the response's own serializer so the output
	// reflects the backend the request used.
	var body interface{}
	bodyStr, err := resp.BodyString()
	if err == nil && bodyStr != "" {
		parsed, err := http.Deserialize[interface{}](resp)
		if err != nil {
			body = bodyStr
		} else {
			body = parsed
		}
	}

	timing := resp.Timing()
	data := ResponseData{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Headers:    headers,
		Body:       body,
		Timing: TimingData{
			DNSLookup:       timing.DNSLookupTime.Milliseconds(),
			TCPConnection:   timing.TCPConnectTime.Milliseconds(),
			TLSHandshake:    timing.TLSHandshakeTime.Milliseconds(),
			TimeToFirstByte: timing.TimeToFirstByte.Milliseconds(),
			Total:           timing.Milliseconds(),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if contentLength := resp.Header("Content-Length"); contentLength != "" {
		if length, err := strconv.ParseInt(contentLength, 10, 64); err == nil {
			data.ContentLength = length
		}
	}
	return data
}

func extractionData(results []Extraction) []ExtractionData {
	data := make([]ExtractionData, 0, len(results))
	for _, r := range results {
		d := ExtractionData{Path: r.Path, Value: r.Value}
		if r.Err != nil {
			d.Value = ""
			d.Error = r.Err.Error()
		}
		data = append(data, d)
	}
	return data
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Verbose bool
	Pretty  bool
}

func (f *JSONFormatter) marshal(v interface{}, what string) string {
	var out []byte
	var err error
	if f.Pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, "Failed to marshal "+what+": "+err.Error())
	}
	return string(out)
}

// Encode writes v to w as a single JSON document.
func (f *JSONFormatter) Encode(w io.Writer, v interface{}) error {
	_, err := io.WriteString(w, f.marshal(v, "value")+"\n")
	return err
}

// FormatRequest formats a request as JSON
func (f *JSONFormatter) FormatRequest(req RequestInfo) string {
	return f.marshal(requestData(req), "request")
}

// FormatResponse formats a response as JSON
func (f *JSONFormatter) FormatResponse(resp *http.Response) string {
	return f.marshal(responseData(resp), "response")
}

// FormatExtractions formats extraction results as a JSON array
func (f *JSONFormatter) FormatExtractions(results []Extraction) string {
	return f.marshal(extractionData(results), "extractions")
}

// FormatSchema formats a schema result as JSON
func (f *JSONFormatter) FormatSchema(result SchemaResult) string {
	return f.marshal(SchemaData(result), "schema result")
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	Verbose bool
}

func (f *YAMLFormatter) marshal(v interface{}, what string) string {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: Failed to marshal %s: %s", what, err)
	}
	return string(out)
}

// FormatRequest formats a request as YAML
func (f *YAMLFormatter) FormatRequest(req RequestInfo) string {
	return f.marshal(requestData(req), "request")
}

// FormatResponse formats a response as YAML
func (f *YAMLFormatter) FormatResponse(resp *http.Response) string {
	return f.marshal(responseData(resp), "response")
}

// FormatExtractions formats extraction results as a YAML sequence
func (f *YAMLFormatter) FormatExtractions(results []Extraction) string {
	return f.marshal(extractionData(results), "extractions")
}

// FormatSchema formats a schema result as YAML
func (f *YAMLFormatter) FormatSchema(result SchemaResult) string {
	return f.marshal(SchemaData(result), "schema result")
}

// GetFormatter returns the appropriate formatter for the given format
func GetFormatter(format OutputFormat, verbose bool, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Verbose: verbose, Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{Verbose: verbose}
	default:
		return NewFormatter(verbose, noColor)
	}
}
