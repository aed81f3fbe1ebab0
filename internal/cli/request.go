package cli

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/httpmaster/config"
	"github.com/wesleyorama2/httpmaster/http"
	"github.com/wesleyorama2/httpmaster/internal/logger"
	"github.com/wesleyorama2/httpmaster/internal/output"
	"github.com/wesleyorama2/httpmaster/pkg/jsonschema"
)

// errSchemaFailed is returned when the response does not match --schema.
var errSchemaFailed = errors.New("response failed schema validation")

// addClientFlags registers the flags that shape the client.
func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("header", "H", []string{}, "HTTP headers to include as 'Name: value' (can be used multiple times)")
	cmd.Flags().DurationP("timeout", "t", http.DefaultTimeout, "Request timeout (0 disables it)")
	cmd.Flags().String("serializer", "standard", "JSON backend: standard or v2")
	cmd.Flags().String("config", "", "Client profile file (YAML or JSON)")
	cmd.Flags().StringArray("var", []string{}, "Profile variable as name=value (can be used multiple times)")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
}

// addRequestFlags registers the flags of the single-request commands.
func addRequestFlags(cmd *cobra.Command) {
	addClientFlags(cmd)
	cmd.Flags().Bool("log", false, "Log request start and finish lines to stderr")
	cmd.Flags().String("log-format", "text", "Log line format: text or zap")
	cmd.Flags().StringArray("extract", []string{}, "JSONPath to extract from the response (can be used multiple times)")
	cmd.Flags().String("schema", "", "JSON Schema file the response body must satisfy")
	cmd.Flags().StringP("output", "o", "text", "Output format: text, json or yaml")
	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose output")
}

// parseHeader splits "Name: value". The value may contain colons.
func parseHeader(raw string) (http.Header, error) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
		return http.Header{}, fmt.Errorf("invalid header %q, want 'Name: value'", raw)
	}
	return http.NewHeader(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])), nil
}

func parseVars(raw []string) (map[string]string, error) {
	vars := make(map[string]string, len(raw))
	for _, v := range raw {
		name, value, ok := strings.Cut(v, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid variable %q, want name=value", v)
		}
		vars[name] = value
	}
	return vars, nil
}

// normalizeURL adds a missing http:// scheme and checks the result parses.
func normalizeURL(raw string) (string, error) {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "http://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid URL %q: missing host", raw)
	}
	return parsed.String(), nil
}

// buildClient creates the client from --config first, then lets explicit
// flags override the profile.
func buildClient(cmd *cobra.Command) (*http.Client, error) {
	flags := cmd.Flags()
	client := http.NewClient(http.WithSink(http.NewWriterSink(cmd.ErrOrStderr())))

	if path, _ := flags.GetString("config"); path != "" {
		profile, err := config.LoadProfile(path)
		if err != nil {
			return nil, err
		}
		rawVars, _ := flags.GetStringArray("var")
		vars, err := parseVars(rawVars)
		if err != nil {
			return nil, err
		}
		profile.Variables = config.MergeEnvironments(profile.Variables, vars)
		if err := profile.Apply(client); err != nil {
			return nil, err
		}
	}

	if flags.Changed("timeout") || !flags.Changed("config") {
		timeout, _ := flags.GetDuration("timeout")
		client.SetTimeout(timeout)
	}

	if flags.Changed("serializer") {
		name, _ := flags.GetString("serializer")
		kind, err := http.ParseKind(name)
		if err != nil {
			return nil, err
		}
		// switching keeps any backend settings the profile configured
		client.Serializer().SetKind(kind)
	}

	rawHeaders, _ := flags.GetStringArray("header")
	for _, raw := range rawHeaders {
		h, err := parseHeader(raw)
		if err != nil {
			return nil, err
		}
		client.AddHeaders(h)
	}

	if flags.Lookup("log") != nil {
		if err := configureLogging(cmd, client); err != nil {
			return nil, err
		}
	}

	client.Serializer().SetWarningSink(http.NewWriterSink(cmd.ErrOrStderr()))
	return client, nil
}

func configureLogging(cmd *cobra.Command, client *http.Client) error {
	enabled, _ := cmd.Flags().GetBool("log")
	if enabled {
		client.EnableLogging()
	}

	format, _ := cmd.Flags().GetString("log-format")
	switch format {
	case "text":
	case "zap":
		l, err := logger.New("info", false)
		if err != nil {
			return err
		}
		client.SetSink(http.NewZapSink(l))
	default:
		return fmt.Errorf("unknown log format %q (want text or zap)", format)
	}
	return nil
}

// runRequest sends one request and prints it in the selected format.
func runRequest(cmd *cobra.Command, method, rawURL, data string) error {
	flags := cmd.Flags()
	verbose, _ := flags.GetBool("verbose")
	noColor, _ := flags.GetBool("no-color")
	formatName, _ := flags.GetString("output")
	paths, _ := flags.GetStringArray("extract")
	schemaPath, _ := flags.GetString("schema")

	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}
	target, err := normalizeURL(rawURL)
	if err != nil {
		return err
	}
	client, err := buildClient(cmd)
	if err != nil {
		return err
	}

	var body any
	if data != "" {
		body, err = http.DeserializeString[any](client.Serializer(), data)
		if err != nil {
			return fmt.Errorf("invalid --data JSON: %w", err)
		}
	}

	schema := ""
	if schemaPath != "" {
		if schema, err = jsonschema.LoadFile(schemaPath); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	formatter := output.GetFormatter(format, verbose, !output.ColorEnabled(out, noColor))

	if format == output.FormatText || verbose {
		payload, err := client.Serializer().Serialize(body)
		if err != nil {
			return err
		}
		write(out, formatter.FormatRequest(output.RequestInfo{
			Method:  method,
			URL:     target,
			Headers: client.Headers(),
			Body:    payload,
		}))
	}

	resp, err := client.Do(cmd.Context(), method, target, body)
	if err != nil {
		return err
	}
	defer resp.Close()

	write(out, formatter.FormatResponse(resp))

	if len(paths) > 0 {
		results := make([]output.Extraction, 0, len(paths))
		for _, path := range paths {
			value, err := resp.Extract(path)
			results = append(results, output.Extraction{Path: path, Value: value, Err: err})
		}
		write(out, formatter.FormatExtractions(results))
	}

	if schema != "" {
		valid, errs := resp.ValidateSchemaWithErrors(schema)
		result := output.SchemaResult{Valid: valid}
		for _, e := range errs {
			result.Errors = append(result.Errors, e.Error())
		}
		write(out, formatter.FormatSchema(result))
		if !valid {
			return errSchemaFailed
		}
	}

	return nil
}

func write(w io.Writer, s string) {
	if s == "" {
		return
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, _ = io.WriteString(w, s)
}
