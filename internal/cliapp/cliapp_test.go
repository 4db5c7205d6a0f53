package cliapp_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"corpusprep/internal/cliapp"
	"corpusprep/internal/jobs"
	"corpusprep/internal/testsupport"
)

func newTestRoot(c *cliapp.Context, run func(cmd *cobra.Command, args []string) error) *cobra.Command {
	root := &cobra.Command{
		Use:           "tool <input>",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cliapp.ExactArgs(c.Job(), 1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.Prepare(cmd)
		},
		RunE: run,
	}
	c.BindPersistentFlags(root)
	root.SetFlagErrorFunc(cliapp.FlagError(c.Job()))
	root.AddCommand(cliapp.NewConfigCommand(c))
	return root
}

func noop(*cobra.Command, []string) error { return nil }

func TestConfigInitAndValidate(t *testing.T) {
	testsupport.Isolate(t)

	out, _, code := testsupport.RunCLI(t, newTestRoot(cliapp.NewContext("tool"), noop), "config", "validate")
	if code != jobs.ExitOK {
		t.Fatalf("config validate exit %d", code)
	}
	testsupport.RequireContains(t, out, "defaults were used")
	testsupport.RequireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "conf", "corpusprep.toml")
	out, _, code = testsupport.RunCLI(t, newTestRoot(cliapp.NewContext("tool"), noop), "config", "init", "--path", target)
	if code != jobs.ExitOK {
		t.Fatalf("config init exit %d", code)
	}
	testsupport.RequireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	_, errOut, code := testsupport.RunCLI(t, newTestRoot(cliapp.NewContext("tool"), noop), "config", "init", "--path", target)
	if code != jobs.ExitUsage {
		t.Fatalf("second config init exit %d, want %d", code, jobs.ExitUsage)
	}
	testsupport.RequireContains(t, errOut, "already exists")

	if _, _, code = testsupport.RunCLI(t, newTestRoot(cliapp.NewContext("tool"), noop), "config", "init", "--path", target, "--overwrite"); code != jobs.ExitOK {
		t.Fatalf("config init --overwrite exit %d", code)
	}

	out, _, code = testsupport.RunCLI(t, newTestRoot(cliapp.NewContext("tool"), noop), "--config", target, "config", "validate")
	if code != jobs.ExitOK {
		t.Fatalf("config validate --config exit %d", code)
	}
	testsupport.RequireContains(t, out, "Config path: "+target)
	if strings.Contains(out, "defaults were used") {
		t.Fatalf("expected existing config to be reported, got %q", out)
	}
}

func TestConfigValidateJSON(t *testing.T) {
	testsupport.Isolate(t)
	out, _, code := testsupport.RunCLI(t, newTestRoot(cliapp.NewContext("tool"), noop), "--json", "config", "validate")
	if code != jobs.ExitOK {
		t.Fatalf("exit %d", code)
	}
	testsupport.RequireContains(t, out, `"exists": false`)
}

func TestExecuteReportsUsageForBadArity(t *testing.T) {
	testsupport.Isolate(t)
	_, errOut, code := testsupport.RunCLI(t, newTestRoot(cliapp.NewContext("tool"), noop))
	if code != jobs.ExitUsage {
		t.Fatalf("exit %d, want %d", code, jobs.ExitUsage)
	}
	testsupport.RequireContains(t, errOut, "expected 1 arguments, got 0")
	testsupport.RequireContains(t, errOut, "Usage: tool <input>")
}

func TestExecuteTagsUnknownFlags(t *testing.T) {
	testsupport.Isolate(t)
	_, errOut, code := testsupport.RunCLI(t, newTestRoot(cliapp.NewContext("tool"), noop), "--nope", "x")
	if code != jobs.ExitUsage {
		t.Fatalf("exit %d, want %d", code, jobs.ExitUsage)
	}
	testsupport.RequireContains(t, errOut, "unknown flag")
}

func TestExecuteMapsFailures(t *testing.T) {
	testsupport.Isolate(t)
	fail := func(*cobra.Command, []string) error {
		return jobs.Wrap(jobs.ErrNotFound, "tool", "open", "missing.txt", nil)
	}
	_, errOut, code := testsupport.RunCLI(t, newTestRoot(cliapp.NewContext("tool"), fail), "missing.txt")
	if code != jobs.ExitFailure {
		t.Fatalf("exit %d, want %d", code, jobs.ExitFailure)
	}
	testsupport.RequireContains(t, errOut, "Error: not found: tool: open: missing.txt")
	if strings.Contains(errOut, "Usage:") {
		t.Fatalf("usage should only follow invalid arguments, got %q", errOut)
	}
}

func TestExecuteCancelled(t *testing.T) {
	testsupport.Isolate(t)
	waitForCancel := func(cmd *cobra.Command, _ []string) error {
		<-cmd.Context().Done()
		return cmd.Context().Err()
	}
	root := newTestRoot(cliapp.NewContext("tool"), waitForCancel)
	var stderr strings.Builder
	root.SetErr(&stderr)
	root.SetOut(&stderr)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if code := cliapp.Execute(ctx, root, []string{"x"}, &stderr); code != jobs.ExitFailure {
		t.Fatalf("exit %d, want %d", code, jobs.ExitFailure)
	}
	testsupport.RequireContains(t, stderr.String(), "interrupted")
}

func TestPrepareRejectsBadLogFlags(t *testing.T) {
	testsupport.Isolate(t)
	_, errOut, code := testsupport.RunCLI(t, newTestRoot(cliapp.NewContext("tool"), noop), "--log-format", "xml", "x")
	if code != jobs.ExitUsage {
		t.Fatalf("exit %d, want %d (%s)", code, jobs.ExitUsage, errOut)
	}
}

func TestPrepareBuildsRunLogger(t *testing.T) {
	testsupport.Isolate(t)
	c := cliapp.NewContext("tool")
	logged := func(cmd *cobra.Command, _ []string) error {
		if id, _ := jobs.RunIDFromContext(cmd.Context()); id != c.RunID() {
			t.Errorf("command context missing run id")
		}
		c.Logger().Info("hello from tool")
		return nil
	}
	_, errOut, code := testsupport.RunCLI(t, newTestRoot(c, logged), "--log-format", "json", "x")
	if code != jobs.ExitOK {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	testsupport.RequireContains(t, errOut, `"msg":"hello from tool"`)
	testsupport.RequireContains(t, errOut, `"run_id":"`+c.RunID()+`"`)
	testsupport.RequireContains(t, errOut, `"command":"tool"`)
}

func TestAcquireRunLock(t *testing.T) {
	testsupport.Isolate(t)
	cfg := testsupport.NewConfig(t)
	configPath := filepath.Join(t.TempDir(), "corpusprep.toml")
	testsupport.WriteConfig(t, configPath, cfg)

	first := cliapp.NewContext("tool")
	first.Flags().ConfigPath = configPath
	lock, err := first.AcquireRunLock("out.txt")
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}
	if lock == nil {
		t.Fatal("expected a lock when run locking is enabled")
	}
	defer lock.Release()
	if !strings.HasPrefix(lock.Path(), cfg.Run.LockDir) {
		t.Fatalf("lock %s not under %s", lock.Path(), cfg.Run.LockDir)
	}

	second := cliapp.NewContext("tool")
	second.Flags().ConfigPath = configPath
	if _, err := second.AcquireRunLock("out.txt"); !errors.Is(err, jobs.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestAcquireRunLockDisabled(t *testing.T) {
	testsupport.Isolate(t)
	configPath := filepath.Join(t.TempDir(), "corpusprep.toml")
	testsupport.WriteConfig(t, configPath, testsupport.NewConfig(t, testsupport.WithoutLock()))

	c := cliapp.NewContext("tool")
	c.Flags().ConfigPath = configPath
	lock, err := c.AcquireRunLock("out.txt")
	if err != nil || lock != nil {
		t.Fatalf("expected no lock and no error, got %v, %v", lock, err)
	}
}

func TestRenderTable(t *testing.T) {
	if got := cliapp.RenderTable(nil, nil, nil, nil); got != "" {
		t.Fatalf("expected empty render for no headers, got %q", got)
	}
	out := cliapp.RenderTable(
		[]string{"Shard", "Lines"},
		[][]string{{"in_0", "12"}, {"in_1"}},
		[]cliapp.ColumnAlignment{cliapp.AlignLeft, cliapp.AlignRight},
		[]string{"Total", "12"},
	)
	for _, fragment := range []string{"SHARD", "LINES", "in_0", "in_1", "TOTAL"} {
		testsupport.RequireContains(t, out, fragment)
	}
}
