package main

import (
	"path/filepath"
	"testing"

	"github.com/bayside-church/magnus-cli/internal/config"
)

func TestGlobalFlags(t *testing.T) {
	t.Setenv("MAGNUS_SERVERURL", "")
	t.Setenv("MAGNUS_RETRIES", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := config.Save(path, &config.Config{ServerURL: "https://rock.test", Retries: 1}); err != nil {
		t.Fatal(err)
	}

	fs, g := newFlagSet("pull", "pull [path]")
	if err := fs.Parse([]string{"-v", "--config", path, "--retries", "4", "/comm"}); err != nil {
		t.Fatal(err)
	}

	if !g.verbose || g.quiet {
		t.Errorf("verbose = %v quiet = %v", g.verbose, g.quiet)
	}
	if fs.Arg(0) != "/comm" {
		t.Errorf("Arg(0) = %q", fs.Arg(0))
	}

	cfg := g.load()
	if cfg.ServerURL != "https://rock.test" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.Retries != 4 {
		t.Errorf("Retries = %d, want flag override 4", cfg.Retries)
	}
}

func TestRetriesDefaultFromConfig(t *testing.T) {
	t.Setenv("MAGNUS_RETRIES", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := config.Save(path, &config.Config{Retries: 2}); err != nil {
		t.Fatal(err)
	}

	fs, g := newFlagSet("ls", "ls [path]")
	if err := fs.Parse([]string{"--config", path}); err != nil {
		t.Fatal(err)
	}
	if got := g.load().Retries; got != 2 {
		t.Errorf("Retries = %d, want 2", got)
	}
}
