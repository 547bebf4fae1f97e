package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/bayside-church/magnus-cli/internal/config"
	"github.com/bayside-church/magnus-cli/internal/ignore"
	"github.com/bayside-church/magnus-cli/internal/logging"
	"github.com/bayside-church/magnus-cli/internal/metrics"
	"github.com/bayside-church/magnus-cli/internal/navigate"
	"github.com/bayside-church/magnus-cli/internal/pull"
	"github.com/bayside-church/magnus-cli/internal/push"
	"github.com/bayside-church/magnus-cli/internal/state"
	"github.com/bayside-church/magnus-cli/internal/storage"
	"github.com/bayside-church/magnus-cli/pkg/tree"
)

func cmdCd(ctx context.Context, args []string) error {
	fs, g := newFlagSet("cd", "cd [path] [flags]")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg := g.setup()

	query := fs.Arg(0)
	if query == "" {
		query = tree.RootDirectory
	}

	nav, err := newNavigator(ctx, g, cfg)
	if err != nil {
		return err
	}

	result, err := nav.ChangeDirectory(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to change directory: %w", err)
	}

	if result.Match != nil && result.Match.DisplayName != query {
		fmt.Printf("Current directory changed to: %s (matched %q)\n", result.Path, result.Match.DisplayName)
	} else {
		fmt.Printf("Current directory changed to: %s\n", result.Path)
	}
	navigate.RenderDirectory(os.Stdout, result.Path, result.Entries)
	return nil
}

func cmdLs(ctx context.Context, args []string) error {
	fs, g := newFlagSet("ls", "ls [path] [flags]")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg := g.setup()

	nav, err := newNavigator(ctx, g, cfg)
	if err != nil {
		return err
	}

	listing, err := nav.List(ctx, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}
	navigate.RenderListing(os.Stdout, listing)
	return nil
}

func newNavigator(ctx context.Context, g *globals, cfg *config.Config) (*navigate.Navigator, error) {
	c, err := connect(ctx, g, cfg)
	if err != nil {
		return nil, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return navigate.New(c, state.New(wd), nil), nil
}

func cmdPull(ctx context.Context, args []string) error {
	fs, g := newFlagSet("pull", "pull [path] [flags]")
	metricsFile := fs.String("metrics-file", "", "Write Prometheus metrics to FILE after the pull")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg := g.setup()

	c, err := connect(ctx, g, cfg)
	if err != nil {
		return err
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	backend, err := storage.New(ctx, cfg.Storage, wd)
	if err != nil {
		return err
	}
	defer backend.Close()

	opts := pull.Options{
		Remote:  c,
		Storage: backend,
		Rules:   ignore.Load(wd),
		Current: state.New(wd),
	}
	if backend.Type() == "local" {
		opts.States = func(dir string) *state.Store {
			return state.New(filepath.Join(wd, filepath.FromSlash(dir)))
		}
	}

	report, err := pull.New(opts).Pull(ctx, fs.Arg(0))

	if *metricsFile != "" {
		if werr := metrics.WriteTextfile(*metricsFile); werr != nil {
			logging.Warn("failed to write metrics file", zap.String("file", *metricsFile), zap.Error(werr))
		}
	}

	if report != nil {
		printReport(report)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("pull interrupted")
		}
		return err
	}

	fmt.Println("Pull done")
	return nil
}

func printReport(r *pull.Report) {
	fmt.Printf("\nPulled %d file(s) in %d folder(s), %d bytes\n", r.Files, r.Folders, r.Bytes)
	if r.Skipped > 0 {
		fmt.Printf("Skipped %d item(s) due to ignore patterns\n", r.Skipped)
	}
	if r.PermissionDenied > 0 {
		fmt.Printf("Skipped %d item(s) due to permissions\n", r.PermissionDenied)
	}
	if r.Failed > 0 {
		fmt.Printf("%d item(s) failed, see the log above\n", r.Failed)
	}
	if r.Collisions > 0 {
		fmt.Printf("%d local name collision(s)\n", r.Collisions)
	}
}

func cmdPush(ctx context.Context, args []string) error {
	fs, g := newFlagSet("push", "push <local-file> [remote-name] [flags]")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("push requires a local file")
	}
	cfg := g.setup()

	c, err := connect(ctx, g, cfg)
	if err != nil {
		return err
	}

	target, err := push.File(ctx, c, fs.Arg(0), fs.Arg(1))
	if err != nil {
		return err
	}
	fmt.Printf("File pushed successfully to %s\n", target)
	return nil
}
