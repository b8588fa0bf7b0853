package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func newTestApp() (*App, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	app := New().WithOutput(stdout, stderr)
	return app, stdout, stderr
}

func TestVersionCommand(t *testing.T) {
	app, stdout, _ := newTestApp()

	if err := app.ExecuteWithArgs(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("version command error = %v", err)
	}
	if !strings.Contains(stdout.String(), "distill-agent version") {
		t.Errorf("version output = %q", stdout.String())
	}
}

func TestHelpListsCommands(t *testing.T) {
	app, stdout, _ := newTestApp()

	if err := app.ExecuteWithArgs(context.Background(), []string{"--help"}); err != nil {
		t.Fatalf("help error = %v", err)
	}

	out := stdout.String()
	for _, cmd := range []string{"run", "status", "leaderboard", "history", "version"} {
		if !strings.Contains(out, cmd) {
			t.Errorf("help output missing %q", cmd)
		}
	}
}

func TestRunRequiresPlayer(t *testing.T) {
	app, _, _ := newTestApp()

	err := app.ExecuteWithArgs(context.Background(), []string{"run"})
	if err == nil || !strings.Contains(err.Error(), "player ID") {
		t.Errorf("run without player error = %v, want player ID requirement", err)
	}
}

func TestRunRejectsUnknownPreset(t *testing.T) {
	app, _, _ := newTestApp()

	err := app.ExecuteWithArgs(context.Background(), []string{"run", "--player", "p1", "--preset", "reckless"})
	if err == nil {
		t.Error("run with unknown preset should fail")
	}
}

func TestStatusRequiresPlayer(t *testing.T) {
	app, _, _ := newTestApp()

	err := app.ExecuteWithArgs(context.Background(), []string{"status"})
	if err == nil || !strings.Contains(err.Error(), "player ID") {
		t.Errorf("status without player error = %v, want player ID requirement", err)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	opts := &runOptions{
		preset:        "conservative",
		playerID:      "p1",
		serverURL:     "http://localhost:9999",
		maxIterations: 7,
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Name != "conservative" {
		t.Errorf("preset = %q, want conservative", cfg.Name)
	}
	if cfg.Client.BaseURL != "http://localhost:9999" {
		t.Errorf("BaseURL = %q, want override", cfg.Client.BaseURL)
	}
	if cfg.Client.PlayerID != "p1" {
		t.Errorf("PlayerID = %q, want p1", cfg.Client.PlayerID)
	}
	if cfg.MaxIterations != 7 {
		t.Errorf("MaxIterations = %d, want 7", cfg.MaxIterations)
	}
}
