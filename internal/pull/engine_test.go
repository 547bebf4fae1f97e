package pull

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bayside-church/magnus-cli/internal/ignore"
	"github.com/bayside-church/magnus-cli/internal/state"
	"github.com/bayside-church/magnus-cli/internal/storage/local"
	"github.com/bayside-church/magnus-cli/pkg/client"
	"github.com/bayside-church/magnus-cli/pkg/models"
)

type fakeRemote struct {
	listings map[string][]models.RemoteEntry
	contents map[string]string
	listErr  map[string]error
	fetchErr map[string]error

	listed  []string
	fetched []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		listings: make(map[string][]models.RemoteEntry),
		contents: make(map[string]string),
		listErr:  make(map[string]error),
		fetchErr: make(map[string]error),
	}
}

func (f *fakeRemote) ListEntries(_ context.Context, path string) ([]models.RemoteEntry, error) {
	f.listed = append(f.listed, path)
	if err := f.listErr[path]; err != nil {
		return nil, err
	}
	return f.listings[path], nil
}

func (f *fakeRemote) FetchContent(_ context.Context, uri string) ([]byte, error) {
	f.fetched = append(f.fetched, uri)
	if err := f.fetchErr[uri]; err != nil {
		return nil, err
	}
	content, ok := f.contents[uri]
	if !ok {
		return nil, &client.APIError{Op: "fetch", URL: uri, StatusCode: 404, Kind: client.KindNotFound}
	}
	return []byte(content), nil
}

func (f *fakeRemote) file(uri, content string) models.RemoteEntry {
	f.contents[uri] = content
	return models.RemoteEntry{DisplayName: path.Base(uri), URI: uri}
}

func folderEntry(name, uri string) models.RemoteEntry {
	return models.RemoteEntry{DisplayName: name, URI: uri, IsFolder: true}
}

type harness struct {
	root   string
	remote *fakeRemote
	logs   *observer.ObservedLogs
	opts   Options
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()
	backend, err := local.New(local.Config{RootPath: root})
	if err != nil {
		t.Fatal(err)
	}
	core, logs := observer.New(zapcore.DebugLevel)
	remote := newFakeRemote()
	return &harness{
		root:   root,
		remote: remote,
		logs:   logs,
		opts: Options{
			Remote:  remote,
			Storage: backend,
			Logger:  zap.New(core),
		},
	}
}

func (h *harness) pull(t *testing.T, path string) *Report {
	t.Helper()
	report, err := New(h.opts).Pull(context.Background(), path)
	if err != nil {
		t.Fatalf("Pull(%q): %v", path, err)
	}
	return report
}

func (h *harness) readFile(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(h.root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

func (h *harness) assertMissing(t *testing.T, rel string) {
	t.Helper()
	if _, err := os.Stat(filepath.Join(h.root, filepath.FromSlash(rel))); !os.IsNotExist(err) {
		t.Errorf("%s should not exist (err=%v)", rel, err)
	}
}

func TestPull_PartialFailureContinues(t *testing.T) {
	h := newHarness(t)
	h.remote.listings["root"] = []models.RemoteEntry{
		h.remote.file("/site/a.lava", "a"),
		h.remote.file("/site/b.lava", "b"),
		h.remote.file("/site/c.lava", "c"),
	}
	h.remote.fetchErr["/site/b.lava"] = errors.New("connection reset by peer")

	report := h.pull(t, "root")

	if report.Files != 2 || report.Failed != 1 {
		t.Errorf("report = %+v, want 2 files and 1 failure", report)
	}
	if got := h.readFile(t, "c.lava"); got != "c" {
		t.Errorf("c.lava = %q", got)
	}
	h.assertMissing(t, "b.lava")
	if n := h.logs.FilterMessage("failed to pull entry").Len(); n != 1 {
		t.Errorf("error logs = %d, want 1", n)
	}
}

func TestPull_PermissionDeniedSkips(t *testing.T) {
	h := newHarness(t)
	h.remote.listings["root"] = []models.RemoteEntry{
		h.remote.file("/site/secret.lava", "x"),
		folderEntry("Locked Folder", "/locked"),
		h.remote.file("/site/open.lava", "ok"),
	}
	h.remote.fetchErr["/site/secret.lava"] = &client.APIError{Op: "fetch", StatusCode: 403, Kind: client.KindAccessDenied}
	h.remote.listErr["/locked"] = &client.APIError{Op: "list", StatusCode: 401, Kind: client.KindAccessDenied}

	report := h.pull(t, "root")

	if report.PermissionDenied != 2 || report.Failed != 0 || report.Files != 1 {
		t.Errorf("report = %+v, want 2 permission skips and 1 file", report)
	}
	warnings := h.logs.FilterMessage("permission denied, skipping")
	if warnings.Len() != 2 {
		t.Fatalf("permission warnings = %d, want 2", warnings.Len())
	}
	for _, entry := range warnings.All() {
		if entry.Level != zapcore.WarnLevel {
			t.Errorf("level = %v, want warn", entry.Level)
		}
	}
}

func TestPull_FoldersRecurseWithDerivedNames(t *testing.T) {
	h := newHarness(t)
	h.opts.States = func(dir string) *state.Store {
		return state.New(filepath.Join(h.root, filepath.FromSlash(dir)))
	}
	h.remote.listings["root"] = []models.RemoteEntry{
		folderEntry("Communication Templates", "/comm"),
		folderEntry("Lava Application Content", "/lac"),
		h.remote.file("/top.txt", "top"),
	}
	h.remote.listings["/comm"] = []models.RemoteEntry{
		h.remote.file("/comm/email.lava", "email"),
		folderEntry("Nested Stuff", "/comm/nested"),
	}
	h.remote.listings["/comm/nested"] = []models.RemoteEntry{
		h.remote.file("/comm/nested/deep.lava", "deep"),
	}
	h.remote.listings["/lac"] = []models.RemoteEntry{
		h.remote.file("/lac/page.lava", "page"),
	}

	report := h.pull(t, "root")

	if report.Files != 4 || report.Folders != 3 {
		t.Errorf("report = %+v, want 4 files in 3 folders", report)
	}
	if got := h.readFile(t, "Communication/email.lava"); got != "email" {
		t.Errorf("email.lava = %q", got)
	}
	if got := h.readFile(t, "Communication/Nested/deep.lava"); got != "deep" {
		t.Errorf("deep.lava = %q", got)
	}
	if got := h.readFile(t, "Lava Application Content/page.lava"); got != "page" {
		t.Errorf("page.lava = %q", got)
	}
	if got := h.readFile(t, "top.txt"); got != "top" {
		t.Errorf("top.txt = %q", got)
	}
	h.assertMissing(t, "Lava Application Content/top.txt")

	if got := state.New(filepath.Join(h.root, "Communication")).Get(); got != "/comm" {
		t.Errorf("Communication current directory = %q, want /comm", got)
	}
	if got := state.New(filepath.Join(h.root, "Communication", "Nested")).Get(); got != "/comm/nested" {
		t.Errorf("Nested current directory = %q, want /comm/nested", got)
	}
}

func TestPull_FailedFolderLeavesLocationUnchanged(t *testing.T) {
	h := newHarness(t)
	h.remote.listings["root"] = []models.RemoteEntry{
		folderEntry("Broken", "/broken"),
		h.remote.file("/after.txt", "after"),
	}
	h.remote.listErr["/broken"] = errors.New("unexpected EOF")

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	report := h.pull(t, "root")

	if report.Failed != 1 || report.Files != 1 {
		t.Errorf("report = %+v, want 1 failure and 1 file", report)
	}
	if got := h.readFile(t, "after.txt"); got != "after" {
		t.Errorf("after.txt = %q", got)
	}
	h.assertMissing(t, "Broken/after.txt")

	after, _ := os.Getwd()
	if after != wd {
		t.Errorf("working directory changed: %q -> %q", wd, after)
	}
}

func TestPullFolder_CallerLocationUnchanged(t *testing.T) {
	h := newHarness(t)
	h.remote.listings["/child"] = []models.RemoteEntry{h.remote.file("/child/x.lava", "x")}

	e := New(h.opts)
	e.report = &Report{}
	e.files = map[string]string{}
	e.folders = map[string]string{}

	parent := location{remote: "/parent", local: "Parent"}
	if err := e.pullFolder(context.Background(), parent, folderEntry("Child Folder", "/child")); err != nil {
		t.Fatal(err)
	}
	if parent.remote != "/parent" || parent.local != "Parent" {
		t.Errorf("parent location changed: %+v", parent)
	}
	if got := h.readFile(t, "Parent/Child/x.lava"); got != "x" {
		t.Errorf("x.lava = %q", got)
	}
	if h.logs.FilterMessage("restored location").Len() != 1 {
		t.Error("expected a restore log entry")
	}
}

func TestPull_FolderNameCollisionMerges(t *testing.T) {
	h := newHarness(t)
	h.remote.listings["root"] = []models.RemoteEntry{
		folderEntry("Reports Monthly", "/rm"),
		folderEntry("Reports Annual", "/ra"),
	}
	h.remote.listings["/rm"] = []models.RemoteEntry{h.remote.file("/rm/m.lava", "m")}
	h.remote.listings["/ra"] = []models.RemoteEntry{h.remote.file("/ra/a.lava", "a")}

	report := h.pull(t, "root")

	if report.Collisions != 1 {
		t.Errorf("collisions = %d, want 1", report.Collisions)
	}
	h.readFile(t, "Reports/m.lava")
	h.readFile(t, "Reports/a.lava")
	if h.logs.FilterMessage("folders share a local name, merging").Len() != 1 {
		t.Error("expected a merge warning")
	}
}

func TestPull_EmptyFolderNameSkipped(t *testing.T) {
	h := newHarness(t)
	h.remote.listings["root"] = []models.RemoteEntry{folderEntry("   ", "/blank")}

	report := h.pull(t, "root")

	if report.Skipped != 1 || report.Folders != 0 {
		t.Errorf("report = %+v, want 1 skip", report)
	}
	for _, p := range h.remote.listed {
		if p == "/blank" {
			t.Error("blank folder should not be listed")
		}
	}
}

func TestPull_IgnoreRules(t *testing.T) {
	h := newHarness(t)
	h.opts.Rules = ignore.New("*.json", "/archive")
	h.remote.listings["root"] = []models.RemoteEntry{
		h.remote.file("/site/data.json", "{}"),
		folderEntry("Archive", "/archive"),
		h.remote.file("/site/keep.lava", "keep"),
	}

	report := h.pull(t, "root")

	if report.Skipped != 2 || report.Files != 1 {
		t.Errorf("report = %+v, want 2 skipped and 1 file", report)
	}
	for _, uri := range h.remote.fetched {
		if uri == "/site/data.json" {
			t.Error("ignored file was fetched")
		}
	}
	for _, p := range h.remote.listed {
		if p == "/archive" {
			t.Error("ignored folder was listed")
		}
	}
}

func TestPull_EmptyPathUsesCurrentDirectory(t *testing.T) {
	h := newHarness(t)
	current := state.New(t.TempDir())
	if err := current.Set("/comm"); err != nil {
		t.Fatal(err)
	}
	h.opts.Current = current
	h.remote.listings["/comm"] = []models.RemoteEntry{h.remote.file("/comm/email.lava", "email")}

	h.pull(t, "")

	if len(h.remote.listed) == 0 || h.remote.listed[0] != "/comm" {
		t.Errorf("listed = %v, want /comm first", h.remote.listed)
	}
	h.readFile(t, "email.lava")
}

func TestPull_EmptyPathDefaultsToRoot(t *testing.T) {
	h := newHarness(t)
	h.pull(t, "")
	if len(h.remote.listed) != 1 || h.remote.listed[0] != "root" {
		t.Errorf("listed = %v, want [root]", h.remote.listed)
	}
}

func TestPull_NoItems(t *testing.T) {
	h := newHarness(t)

	report := h.pull(t, "/empty")

	if report.Files != 0 || len(h.remote.fetched) != 0 {
		t.Errorf("report = %+v fetched = %v, want nothing", report, h.remote.fetched)
	}
	if h.logs.FilterMessage("no items found").Len() != 1 {
		t.Error("expected a no items log entry")
	}
}

func TestPull_SingleFile(t *testing.T) {
	h := newHarness(t)
	h.remote.contents["/themes/site.css"] = "body{}"

	report := h.pull(t, "/themes/site.css")

	if report.Files != 1 {
		t.Errorf("files = %d, want 1", report.Files)
	}
	if got := h.readFile(t, "site.css"); got != "body{}" {
		t.Errorf("site.css = %q", got)
	}
}

func TestPull_SingleFileErrorPropagates(t *testing.T) {
	h := newHarness(t)
	h.remote.fetchErr["/themes/site.css"] = errors.New("connection refused")

	report, err := New(h.opts).Pull(context.Background(), "/themes/site.css")
	if err == nil {
		t.Fatal("expected error")
	}
	if report.Failed != 1 {
		t.Errorf("failed = %d, want 1", report.Failed)
	}
}

func TestPull_TopLevelListErrorPropagates(t *testing.T) {
	h := newHarness(t)
	h.remote.listErr["root"] = errors.New("dial tcp: connection refused")

	if _, err := New(h.opts).Pull(context.Background(), "root"); err == nil {
		t.Fatal("expected error")
	}
}

func TestPull_Cancelled(t *testing.T) {
	h := newHarness(t)
	h.remote.listings["root"] = []models.RemoteEntry{h.remote.file("/a.lava", "a")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(h.opts).Pull(ctx, "root")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(h.remote.fetched) != 0 {
		t.Errorf("fetched = %v after cancel", h.remote.fetched)
	}
}

func TestPull_InvalidFileName(t *testing.T) {
	h := newHarness(t)
	h.remote.listings["root"] = []models.RemoteEntry{{DisplayName: "dot", URI: "/a/.."}}

	report := h.pull(t, "root")

	if report.Failed != 1 || len(h.remote.fetched) != 0 {
		t.Errorf("report = %+v fetched = %v, want rejected before fetch", report, h.remote.fetched)
	}
}
