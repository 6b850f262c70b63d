package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/taskfn/internal/observability"
)

// useEventLog points EventLog at a fresh JSONL log for the test.
func useEventLog(t *testing.T) observability.EventLog {
	t.Helper()
	el, err := observability.NewJSONLEventLog(filepath.Join(t.TempDir(), "events.jsonl"))
	if err != nil {
		t.Fatalf("creating event log: %v", err)
	}
	orig := EventLog
	EventLog = el
	t.Cleanup(func() {
		EventLog = orig
		_ = el.Close()
	})
	return el
}

func TestSetVersionInfo(t *testing.T) {
	// Save originals.
	origVersion := appVersion
	origCommit := appCommit
	origDate := appDate
	defer func() {
		appVersion = origVersion
		appCommit = origCommit
		appDate = origDate
	}()

	SetVersionInfo("1.2.3", "abc1234", "2026-02-13")

	if appVersion != "1.2.3" {
		t.Errorf("appVersion = %q, want 1.2.3", appVersion)
	}
	if appCommit != "abc1234" {
		t.Errorf("appCommit = %q, want abc1234", appCommit)
	}
	if appDate != "2026-02-13" {
		t.Errorf("appDate = %q, want 2026-02-13", appDate)
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"nonexistent-command"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	err := Execute()
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExecute_VersionSubcommand(t *testing.T) {
	origVersion := appVersion
	origCommit := appCommit
	origDate := appDate
	defer func() {
		appVersion = origVersion
		appCommit = origCommit
		appDate = origDate
	}()
	appVersion = "test-ver"
	appCommit = "test-commit"
	appDate = "test-date"

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"version"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	if err := Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), "taskfn test-ver") {
		t.Errorf("version output = %q", stdout.String())
	}
}

func TestExecute_SortWithGlobalFlags(t *testing.T) {
	path := useTaskFile(t, sampleTaskFile)
	useConfig(t, nil, "")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"sort", "--file", path, "-o", "json"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	if err := Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"Code review", "Fix bug", "Write docs"}
	got := titles(decodeTasks(t, stdout.String()))
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("titles = %v, want %v", got, want)
	}
}

func TestExecute_FailureIsLogged(t *testing.T) {
	path := useTaskFile(t, sampleTaskFile)
	useConfig(t, nil, "json")
	el := useEventLog(t)

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"complete", "--file", path})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	if err := Execute(); err == nil {
		t.Fatal("expected error for complete without --tag")
	}

	events, err := el.Read(observability.EventFilter{Level: observability.LevelError})
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if len(events) != 1 || events[0].Type != observability.EventCommandFailed {
		t.Fatalf("events = %+v, want one command.failed", events)
	}
	if events[0].Data["command"] != "taskfn complete" {
		t.Errorf("command = %v, want taskfn complete", events[0].Data["command"])
	}
	if msg, _ := events[0].Data["error"].(string); !strings.Contains(msg, "--tag is required") {
		t.Errorf("error = %q", msg)
	}

	m, err := observability.NewMetricsCalculator(el).Calculate(events[0].Time.Add(-time.Minute))
	if err != nil {
		t.Fatalf("calculating metrics: %v", err)
	}
	if m.Errors != 1 {
		t.Errorf("metrics errors = %d, want 1", m.Errors)
	}
}

func TestExecute_SuccessLogsNoFailure(t *testing.T) {
	path := useTaskFile(t, sampleTaskFile)
	useConfig(t, nil, "json")
	el := useEventLog(t)

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"list", "--file", path})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	if err := Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	events, err := el.Read(observability.EventFilter{Level: observability.LevelError})
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("error events = %+v, want none", events)
	}
}

func TestCommands_Registration(t *testing.T) {
	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range []string{"list", "add", "sort", "filter", "prefix", "complete", "summary", "run", "metrics", "mcp", "version"} {
		if !registered[name] {
			t.Errorf("command %q not registered on root", name)
		}
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, tc := range []struct{ name, short string }{{"file", "f"}, {"format", "o"}} {
		f := rootCmd.PersistentFlags().Lookup(tc.name)
		if f == nil {
			t.Errorf("persistent flag --%s not defined", tc.name)
			continue
		}
		if f.Shorthand != tc.short {
			t.Errorf("--%s shorthand = %q, want %q", tc.name, f.Shorthand, tc.short)
		}
	}
}
