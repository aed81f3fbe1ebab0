package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the command tree with args and captures both streams.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCmd_Help(t *testing.T) {
	stdout, _, err := run(t)
	require.NoError(t, err)
	for _, name := range []string{"get", "post", "put", "delete", "bench"} {
		assert.Contains(t, stdout, name)
	}
}

func TestRootCmd_Version(t *testing.T) {
	stdout, _, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, version)
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	_, _, err := run(t, "fetch", "http://example.com")
	assert.Error(t, err)
}

func TestExecuteArgs_ReportsError(t *testing.T) {
	err := ExecuteArgs([]string{"get"})
	assert.Error(t, err)
}
