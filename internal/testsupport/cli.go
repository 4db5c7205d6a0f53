package testsupport

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"

	"corpusprep/internal/cliapp"
)

// RunCLI executes root with args and returns captured stdout, stderr and the
// exit status.
func RunCLI(t testing.TB, root *cobra.Command, args ...string) (string, string, int) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	code := cliapp.Execute(context.Background(), root, args, &stderr)
	return stdout.String(), stderr.String(), code
}
