// Package pull materializes a remote tree into an output backend.
//
// A pull walks the remote listing depth-first in listing order. Each step
// carries its own location (remote path and local key), so the process
// working directory is never changed and a folder that fails leaves its
// siblings writing to the right place.
package pull

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/bayside-church/magnus-cli/internal/ignore"
	"github.com/bayside-church/magnus-cli/internal/logging"
	"github.com/bayside-church/magnus-cli/internal/metrics"
	"github.com/bayside-church/magnus-cli/internal/state"
	"github.com/bayside-church/magnus-cli/internal/storage"
	"github.com/bayside-church/magnus-cli/pkg/models"
	"github.com/bayside-church/magnus-cli/pkg/tree"
)

// Remote is the part of the API client a pull needs.
type Remote interface {
	ListEntries(ctx context.Context, path string) ([]models.RemoteEntry, error)
	FetchContent(ctx context.Context, uri string) ([]byte, error)
}

// Options configures an Engine.
type Options struct {
	Remote  Remote
	Storage storage.Backend
	Rules   ignore.Rules

	// Current resolves an empty pull path. Nil means "root".
	Current *state.Store

	// States returns the current-directory store for a pulled local folder
	// key. Nil disables writing the pointer into pulled folders.
	States func(localDir string) *state.Store

	Logger *zap.Logger
}

// Report summarizes a pull run.
type Report struct {
	Files            int
	Folders          int
	Skipped          int
	PermissionDenied int
	Failed           int
	Bytes            int64
	Collisions       int
}

// Engine runs pulls. An Engine is not safe for concurrent use.
type Engine struct {
	remote  Remote
	storage storage.Backend
	rules   ignore.Rules
	current *state.Store
	states  func(string) *state.Store
	log     *zap.Logger

	report  *Report
	files   map[string]string // local key -> remote uri written this run
	folders map[string]string // local folder key -> remote uri
}

// location is where a pull step reads from and writes to.
type location struct {
	remote string
	local  string // slash-separated key relative to the storage root
}

func (l location) localDisplay() string {
	if l.local == "" {
		return "."
	}
	return l.local
}

// New creates an Engine.
func New(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = logging.L()
	}
	return &Engine{
		remote:  opts.Remote,
		storage: opts.Storage,
		rules:   opts.Rules,
		current: opts.Current,
		states:  opts.States,
		log:     log,
	}
}

// Pull materializes remotePath into the storage root. An empty path pulls
// the stored current directory. Failures of individual entries are logged
// and counted in the report; the returned error is reserved for failures of
// the top-level listing, an explicit single-file pull, or cancellation.
func (e *Engine) Pull(ctx context.Context, remotePath string) (*Report, error) {
	start := time.Now()
	e.report = &Report{}
	e.files = make(map[string]string)
	e.folders = make(map[string]string)

	if remotePath == "" {
		remotePath = e.currentDirectory()
	}

	e.log.Info("pulling", zap.String("path", remotePath))
	if e.rules.Len() > 0 {
		e.log.Info("loaded ignore patterns",
			zap.Int("count", e.rules.Len()),
			zap.String("file", ignore.FileName))
	}

	err := e.pullPath(ctx, location{remote: remotePath}, true)

	metrics.RecordPull(time.Since(start))
	e.log.Info("pull finished",
		zap.Int("files", e.report.Files),
		zap.Int("folders", e.report.Folders),
		zap.Int("skipped", e.report.Skipped),
		zap.Int("permission_denied", e.report.PermissionDenied),
		zap.Int("failed", e.report.Failed),
		zap.Duration("duration", time.Since(start)))
	return e.report, err
}

func (e *Engine) currentDirectory() string {
	if e.current == nil {
		return tree.RootDirectory
	}
	return e.current.Get()
}

func (e *Engine) pullPath(ctx context.Context, loc location, top bool) error {
	if tree.IsEndpointPath(loc.remote) {
		return e.pullEndpoints(ctx, loc)
	}

	entries, err := e.remote.ListEntries(ctx, loc.remote)
	if err != nil {
		return fmt.Errorf("list %s: %w", loc.remote, err)
	}

	if len(entries) == 0 {
		if top && tree.Ext(loc.remote) != "" {
			if err := e.pullFile(ctx, loc, loc.remote, ""); err != nil {
				e.report.Failed++
				return err
			}
			return nil
		}
		e.log.Info("no items found", zap.String("path", loc.remote))
		return nil
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		if e.rules.Match(entry.URI) {
			e.skip(entry, metrics.SkipIgnored)
			continue
		}

		var err error
		if entry.IsFolder {
			err = e.pullFolder(ctx, loc, entry)
		} else {
			err = e.pullFile(ctx, loc, entry.URI, "")
		}
		if err := e.handleEntryError(entry, err); err != nil {
			return err
		}
	}
	return nil
}

// pullFolder mirrors one remote folder and descends into it. parent is
// passed by value, so the caller's location is unchanged on every return.
func (e *Engine) pullFolder(ctx context.Context, parent location, entry models.RemoteEntry) error {
	name := FolderName(entry.DisplayName)
	if name == "" {
		e.log.Warn("skipping folder with empty name", zap.String("uri", entry.URI))
		e.report.Skipped++
		metrics.RecordSkip(metrics.SkipEmptyName)
		return nil
	}

	child := location{remote: entry.URI, local: path.Join(parent.local, name)}
	if prev, ok := e.folders[child.local]; ok && prev != entry.URI {
		e.log.Warn("folders share a local name, merging",
			zap.String("folder", child.local),
			zap.String("first", prev),
			zap.String("uri", entry.URI))
		e.report.Collisions++
		metrics.RecordCollision()
	}
	e.folders[child.local] = entry.URI

	if err := e.storage.MkdirAll(ctx, child.local); err != nil {
		return fmt.Errorf("create folder %s: %w", child.local, err)
	}
	e.report.Folders++
	metrics.RecordFolder()

	e.log.Debug("entering folder",
		zap.String("folder", child.local),
		zap.String("uri", entry.URI))
	defer e.log.Debug("restored location",
		zap.String("folder", parent.localDisplay()),
		zap.String("uri", parent.remote))

	if e.states != nil {
		if err := e.states(child.local).Set(entry.URI); err != nil {
			return fmt.Errorf("folder %s: %w", child.local, err)
		}
	}

	if err := e.pullPath(ctx, child, false); err != nil {
		return fmt.Errorf("pull folder %s: %w", child.local, err)
	}

	e.log.Info("pulled folder", zap.String("folder", child.local))
	return nil
}

// pullFile writes one remote file under loc. name overrides the destination
// file name; by default the last segment of uri is used.
func (e *Engine) pullFile(ctx context.Context, loc location, uri, name string) error {
	if name == "" {
		name = tree.BaseName(uri)
	}
	if name == "." || name == ".." || name == "/" {
		metrics.RecordFile(0, false)
		return fmt.Errorf("no file name in %q", uri)
	}
	key := path.Join(loc.local, name)

	content, err := e.remote.FetchContent(ctx, uri)
	if err != nil {
		metrics.RecordFile(0, false)
		return fmt.Errorf("fetch %s: %w", uri, err)
	}

	if prev, ok := e.files[key]; ok && prev != uri {
		e.log.Warn("overwriting file pulled earlier in this run",
			zap.String("file", key),
			zap.String("first", prev),
			zap.String("uri", uri))
		e.report.Collisions++
		metrics.RecordCollision()
	}

	size := int64(len(content))
	if err := e.storage.PutObject(ctx, key, bytes.NewReader(content), size); err != nil {
		metrics.RecordFile(0, false)
		return fmt.Errorf("write %s: %w", key, err)
	}
	e.files[key] = uri

	e.report.Files++
	e.report.Bytes += size
	metrics.RecordFile(size, true)
	e.log.Info("pulled file", zap.String("file", key), zap.Int64("bytes", size))
	return nil
}

// handleEntryError applies the per-entry failure policy. Only cancellation escapes.
func (e *Engine) handleEntryError(entry models.RemoteEntry, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if IsPermission(err) {
		e.log.Warn("permission denied, skipping",
			zap.String("uri", entry.URI),
			zap.Bool("folder", entry.IsFolder),
			zap.Error(err))
		e.report.PermissionDenied++
		metrics.RecordSkip(metrics.SkipPermission)
		return nil
	}

	e.log.Error("failed to pull entry",
		zap.String("uri", entry.URI),
		zap.String("name", entry.DisplayName),
		zap.Bool("folder", entry.IsFolder),
		zap.Error(err))
	e.report.Failed++
	return nil
}

func (e *Engine) skip(entry models.RemoteEntry, reason string) {
	e.log.Info("skipping ignored entry",
		zap.String("uri", entry.URI),
		zap.Bool("folder", entry.IsFolder))
	e.report.Skipped++
	metrics.RecordSkip(reason)
}
