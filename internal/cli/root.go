package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// NewRootCmd builds the command tree. Each call returns fresh commands so
// flag state never leaks between invocations.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "httpmaster",
		Short:   "A fluent JSON-over-HTTP client for the terminal",
		Version: version,
		Long: `httpmaster sends JSON requests with configurable headers, timeout and
JSON backend, and prints the response. Responses can be queried with
JSONPath, checked against a JSON Schema, or benchmarked.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.AddCommand(newGetCmd())
	root.AddCommand(newPostCmd())
	root.AddCommand(newPutCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(newBenchCmd())
	return root
}

// Execute runs the command line and prints any error to stderr.
// This is called by main.main().
func Execute() error {
	return ExecuteArgs(os.Args[1:])
}

// ExecuteArgs runs the command line with explicit arguments.
func ExecuteArgs(args []string) error {
	root := NewRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
