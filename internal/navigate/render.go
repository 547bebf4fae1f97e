package navigate

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/bayside-church/magnus-cli/pkg/models"
	"github.com/bayside-church/magnus-cli/pkg/tree"
)

// RenderDirectory prints the contents of a directory after a change,
// listing order preserved, folders before files.
func RenderDirectory(w io.Writer, path string, entries []models.RemoteEntry) {
	fmt.Fprintf(w, "\nContents of %s:\n", path)
	if len(entries) == 0 {
		fmt.Fprintln(w, "  Directory is empty.")
		return
	}

	if dirs := models.Folders(entries); len(dirs) > 0 {
		fmt.Fprintln(w, "\n  Directories:")
		for _, d := range dirs {
			fmt.Fprintf(w, "  [dir]  %s (%s)\n", tree.DisplayPath(d.URI), d.DisplayName)
		}
	}
	if files := models.Files(entries); len(files) > 0 {
		fmt.Fprintln(w, "\n  Files:")
		for _, f := range files {
			fmt.Fprintf(w, "  [file] %s (%s)\n", f.URI, f.DisplayName)
		}
	}
}

// RenderListing prints a listing sorted with folders first, then by
// display name.
func RenderListing(w io.Writer, l *Listing) {
	fmt.Fprintf(w, "Found %d items in %s\n", len(l.Entries), l.Path)
	if len(l.Entries) == 0 {
		fmt.Fprintln(w, "No items found in this directory.")
		return
	}

	sorted := SortEntries(l.Entries)
	for _, d := range models.Folders(sorted) {
		fmt.Fprintf(w, "[dir]  %s\n", tree.DisplayPath(d.URI))
	}
	if files := models.Files(sorted); len(files) > 0 {
		fmt.Fprintln(w, "\nFiles:")
		for _, f := range files {
			fmt.Fprintf(w, "[file] %s\n", tree.DisplayPath(f.URI))
		}
	}
}

// SortEntries returns a copy of entries with folders first, each group
// ordered by display name, case-insensitively.
func SortEntries(entries []models.RemoteEntry) []models.RemoteEntry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b models.RemoteEntry) int {
		if a.IsFolder != b.IsFolder {
			if a.IsFolder {
				return -1
			}
			return 1
		}
		return cmp.Or(
			strings.Compare(strings.ToLower(a.DisplayName), strings.ToLower(b.DisplayName)),
			strings.Compare(a.DisplayName, b.DisplayName),
		)
	})
	return sorted
}
