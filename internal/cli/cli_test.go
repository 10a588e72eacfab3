package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunNoArgsPrintsUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(nil, &stdout, &stderr)
	if code != ExitUsage {
		t.Fatalf("exit = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stdout.String(), "gauntlet <command>") {
		t.Fatalf("usage missing:\n%s", stdout.String())
	}
}

func TestRunHelpListsCommands(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"--help"}, &stdout, &stderr)
	if code != ExitOK {
		t.Fatalf("exit = %d, want %d", code, ExitOK)
	}
	for _, name := range []string{"run", "validate", "combine", "ingest"} {
		if !strings.Contains(stdout.String(), name) {
			t.Fatalf("usage missing command %q:\n%s", name, stdout.String())
		}
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"frobnicate"}, &stdout, &stderr)
	if code != ExitUsage {
		t.Fatalf("exit = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "Unknown command: frobnicate") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestCommandHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"combine", "--help"}, &stdout, &stderr)
	if code != ExitOK {
		t.Fatalf("exit = %d, want %d", code, ExitOK)
	}
	if !strings.Contains(stdout.String(), "gauntlet combine") {
		t.Fatalf("stdout = %q", stdout.String())
	}
}
