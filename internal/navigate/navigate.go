// Package navigate implements moving through the remote tree: resolving a
// typed name to a remote directory, persisting it as the current directory
// and listing directory contents.
package navigate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bayside-church/magnus-cli/internal/logging"
	"github.com/bayside-church/magnus-cli/internal/state"
	"github.com/bayside-church/magnus-cli/pkg/models"
	"github.com/bayside-church/magnus-cli/pkg/tree"
)

// Lister lists remote directories.
type Lister interface {
	ListEntries(ctx context.Context, path string) ([]models.RemoteEntry, error)
}

// Navigator resolves and lists remote directories relative to a stored
// current directory.
type Navigator struct {
	remote Lister
	state  *state.Store
	log    *zap.Logger
}

// Result is the outcome of a directory change. Path is the remote path now
// stored as the current directory. Match is the folder the query resolved
// to, or nil when the query was used as a direct path.
type Result struct {
	Path    string
	Match   *models.RemoteEntry
	Entries []models.RemoteEntry
}

// Listing is the content of one remote directory.
type Listing struct {
	Path    string
	Entries []models.RemoteEntry
}

// New creates a Navigator. A nil logger uses the global logger.
func New(remote Lister, store *state.Store, log *zap.Logger) *Navigator {
	if log == nil {
		log = logging.L()
	}
	return &Navigator{remote: remote, state: store, log: log}
}

// Current returns the stored current directory.
func (n *Navigator) Current() string {
	return n.state.Get()
}

// ChangeDirectory resolves query against the children of the current
// directory and makes the result the new current directory. A query that
// matches no child folder is taken as a remote path as-is.
func (n *Navigator) ChangeDirectory(ctx context.Context, query string) (*Result, error) {
	current := n.state.Get()
	items, err := n.remote.ListEntries(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("list current directory %s: %w", current, err)
	}

	match := tree.FindBestMatch(query, items)
	if match == nil {
		n.log.Debug("no match in current directory, using direct path",
			zap.String("query", query),
			zap.String("current", current))

		entries, err := n.remote.ListEntries(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", query, err)
		}
		if len(entries) == 0 {
			n.log.Warn("directory appears to be empty or does not exist", zap.String("path", query))
		}
		if err := n.state.Set(query); err != nil {
			return nil, err
		}
		return &Result{Path: query, Entries: entries}, nil
	}

	target := tree.StripRoot(match.URI)
	if target == "" {
		target = match.URI
	}
	if match.DisplayName != query {
		n.log.Info("matched directory",
			zap.String("query", query),
			zap.String("name", match.DisplayName),
			zap.String("path", target))
	}

	entries, err := n.remote.ListEntries(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", target, err)
	}
	if err := n.state.Set(target); err != nil {
		return nil, err
	}
	return &Result{Path: target, Match: match, Entries: entries}, nil
}

// List returns the entries of remotePath, or of the current directory when
// remotePath is empty.
func (n *Navigator) List(ctx context.Context, remotePath string) (*Listing, error) {
	if remotePath == "" {
		remotePath = n.state.Get()
	}
	entries, err := n.remote.ListEntries(ctx, remotePath)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", remotePath, err)
	}
	return &Listing{Path: remotePath, Entries: entries}, nil
}
