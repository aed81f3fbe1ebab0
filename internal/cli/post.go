package cli

import (
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/httpmaster/http"
)

// newBodyCmd builds a command whose request carries a JSON body. The body
// given with -d is decoded and re-encoded by the selected JSON backend.
func newBodyCmd(method, use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, _ := cmd.Flags().GetString("data")
			return runRequest(cmd, method, args[0], data)
		},
	}
	addRequestFlags(cmd)
	cmd.Flags().StringP("data", "d", "", "JSON data to send in the request body")
	return cmd
}

func newPostCmd() *cobra.Command {
	return newBodyCmd(http.MethodPost, "post URL", "Make a POST request to the specified URL")
}
