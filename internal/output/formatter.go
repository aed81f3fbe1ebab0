package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/wesleyorama2/httpmaster/http"
)

// Formatter is responsible for formatting HTTP requests and responses in text format
type Formatter struct {
	Verbose bool
	NoColor bool
	colors  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		colors:  SchemeFor(noColor),
	}
}

// NewFormatterWithFormat creates a new formatter with the specified output format
func NewFormatterWithFormat(format OutputFormat, verbose, noColor bool) FormatProvider {
	return GetFormatter(format, verbose, noColor)
}

// FormatRequest formats an HTTP request for display
func (f *Formatter) FormatRequest(req RequestInfo) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("▶ REQUEST: %s %s\n", f.colors.Method.Sprint(req.Method), f.colors.URL.Sprint(req.URL)))

	if f.Verbose || len(req.Headers) > 0 {
		buf.WriteString("  Headers:\n")
		for _, h := range req.Headers {
			buf.WriteString(fmt.Sprintf("    %s: %s\n", f.colors.HeaderKey.Sprint(h.Name), f.colors.HeaderValue.Sprint(h.String())))
		}
	}

	if req.Body != "" {
		buf.WriteString("  Body: ")
		buf.WriteString(formatJSONString(req.Body))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatResponse formats an HTTP response for display
func (f *Formatter) FormatResponse(resp *http.Response) string {
	var buf strings.Builder

	timing := resp.Timing()
	buf.WriteString(fmt.Sprintf("◀ RESPONSE: %s (%dms)\n",
		f.colors.StatusColor(resp.StatusCode()).Sprint(resp.Status()),
		timing.Milliseconds()))

	if f.Verbose {
		buf.WriteString("  Timing:\n")
		buf.WriteString(fmt.Sprintf("    DNS Lookup:      %dms\n", timing.DNSLookupTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    TCP Connection:  %dms\n", timing.TCPConnectTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    TLS Handshake:   %dms\n", timing.TLSHandshakeTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    Time to First Byte: %dms\n", timing.TimeToFirstByte.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    Total:           %dms\n", timing.Milliseconds()))

		buf.WriteString("  Headers:\n")
		headers := resp.Headers()
		keys := make([]string, 0, len(headers))
		for key := range headers {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			for _, value := range headers[key] {
				buf.WriteString(fmt.Sprintf("    %s: %s\n", f.colors.HeaderKey.Sprint(key), f.colors.HeaderValue.Sprint(value)))
			}
		}
	}

	body, err := resp.BodyString()
	if err != nil {
		buf.WriteString(fmt.Sprintf("  %s Body unreadable: %s\n", ErrorIcon(f.NoColor), err))
	} else if body != "" {
		buf.WriteString("  Body:\n")
		buf.WriteString(formatJSONString(body))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatExtractions lists each JSONPath and the value it resolved to
func (f *Formatter) FormatExtractions(results []Extraction) string {
	if len(results) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString("  Extracted:\n")
	for _, r := range results {
		if r.Err != nil {
			buf.WriteString(fmt.Sprintf("    %s %s: %s\n", ErrorIcon(f.NoColor), r.Path, f.colors.Error.Sprint(r.Err)))
			continue
		}
		buf.WriteString(fmt.Sprintf("    %s %s = %s\n", SuccessIcon(f.NoColor), r.Path, f.colors.Highlight.Sprint(r.Value)))
	}
	return buf.String()
}

// FormatSchema reports the schema check outcome
func (f *Formatter) FormatSchema(result SchemaResult) string {
	if result.Valid {
		return fmt.Sprintf("  %s %s\n", SuccessIcon(f.NoColor), f.colors.Success.Sprint("Schema validation passed"))
	}

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("  %s %s\n", ErrorIcon(f.NoColor), f.colors.Error.Sprint("Schema validation failed")))
	for _, e := range result.Errors {
		buf.WriteString(fmt.Sprintf("    - %s\n", e))
	}
	return buf.String()
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	err := json.Indent(&prettyJSON, []byte(s), "  ", "  ")
	if err != nil {
		return s
	}
	return prettyJSON.String()
}
