package cli

import (
	"github.com/wesleyorama2/httpmaster/http"

	"github.com/spf13/cobra"
)

func newPutCmd() *cobra.Command {
	return newBodyCmd(http.MethodPut, "put URL", "Make a PUT request to the specified URL")
}
