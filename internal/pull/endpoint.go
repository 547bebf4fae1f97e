package pull

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bayside-church/magnus-cli/internal/metrics"
	"github.com/bayside-church/magnus-cli/pkg/tree"
)

// pullEndpoints flattens application endpoint folders into files named after
// the folder, one level deep: each folder's files land directly under loc as
// EndpointName(folder) + the file's extension. Nested folders are ignored.
func (e *Engine) pullEndpoints(ctx context.Context, loc location) error {
	entries, err := e.remote.ListEntries(ctx, loc.remote)
	if err != nil {
		return fmt.Errorf("list %s: %w", loc.remote, err)
	}

	for _, folder := range entries {
		if !folder.IsFolder {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.rules.Match(folder.URI) {
			e.skip(folder, metrics.SkipIgnored)
			continue
		}

		name := EndpointName(folder.DisplayName)
		if name == "" {
			e.log.Warn("skipping endpoint with empty name", zap.String("uri", folder.URI))
			e.report.Skipped++
			metrics.RecordSkip(metrics.SkipEmptyName)
			continue
		}

		children, err := e.remote.ListEntries(ctx, folder.URI)
		if err != nil {
			if err := e.handleEntryError(folder, fmt.Errorf("list %s: %w", folder.URI, err)); err != nil {
				return err
			}
			continue
		}

		for _, file := range children {
			if file.IsFolder {
				continue
			}
			if e.rules.Match(file.URI) {
				e.skip(file, metrics.SkipIgnored)
				continue
			}
			err := e.pullFile(ctx, loc, file.URI, name+tree.Ext(file.URI))
			if err := e.handleEntryError(file, err); err != nil {
				return err
			}
		}
	}
	return nil
}
