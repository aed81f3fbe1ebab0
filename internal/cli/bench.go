package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/httpmaster/internal/bench"
	"github.com/wesleyorama2/httpmaster/internal/output"
)

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench URL",
		Short: "Send repeated GET requests and report latency percentiles",
		Long: `Fire N GET requests at URL through the async client API, keeping at most
C of them in flight and optionally pacing starts to --rate per second, then
report min, mean, p50, p90, p99 and max latency with a count per status code.

  httpmaster bench https://api.example.com/health -n 500 -c 20
  httpmaster bench https://api.example.com/health -n 100 --rate 25`,
		Args: cobra.ExactArgs(1),
		RunE: runBench,
	}
	addClientFlags(cmd)
	cmd.Flags().IntP("requests", "n", 100, "Total number of requests")
	cmd.Flags().IntP("concurrency", "c", 10, "Maximum requests in flight")
	cmd.Flags().Float64P("rate", "r", 0, "Maximum request starts per second (0 for unpaced)")
	cmd.Flags().StringP("output", "o", "text", "Output format: text, json or yaml")
	return cmd
}

func runBench(cmd *cobra.Command, args []string) error {
	requests, _ := cmd.Flags().GetInt("requests")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	rate, _ := cmd.Flags().GetFloat64("rate")
	noColor, _ := cmd.Flags().GetBool("no-color")
	formatName, _ := cmd.Flags().GetString("output")

	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}
	target, err := normalizeURL(args[0])
	if err != nil {
		return err
	}
	client, err := buildClient(cmd)
	if err != nil {
		return err
	}

	summary, err := bench.Run(cmd.Context(), client, target, bench.Options{
		Requests:    requests,
		Concurrency: concurrency,
		Rate:        rate,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case output.FormatJSON:
		return (&output.JSONFormatter{Pretty: true}).Encode(out, summary)
	case output.FormatYAML:
		return yaml.NewEncoder(out).Encode(summary)
	default:
		writeBenchText(out, target, summary, !output.ColorEnabled(out, noColor))
		return nil
	}
}

func writeBenchText(w io.Writer, target string, s bench.Summary, noColor bool) {
	colors := output.SchemeFor(noColor)

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("%s BENCH: GET %s\n", output.InfoIcon(noColor), colors.URL.Sprint(target)))
	buf.WriteString(fmt.Sprintf("  Requests:  %d (%d failed) in %s, %.1f req/s\n",
		s.Total, s.Failed, s.Elapsed.Round(time.Millisecond), s.RequestsPerSecond()))
	buf.WriteString("  Latency:\n")
	for _, row := range []struct {
		name  string
		value fmt.Stringer
	}{
		{"min", s.Min}, {"mean", s.Mean}, {"p50", s.P50}, {"p90", s.P90}, {"p99", s.P99}, {"max", s.Max},
	} {
		buf.WriteString(fmt.Sprintf("    %-5s %s\n", row.name, colors.Highlight.Sprint(row.value)))
	}
	buf.WriteString("  Status codes:\n")
	for _, code := range s.StatusCodes() {
		buf.WriteString(fmt.Sprintf("    %s %d\n", colors.StatusColor(code).Sprint(code), s.Statuses[code]))
	}

	_, _ = io.WriteString(w, buf.String())
}
