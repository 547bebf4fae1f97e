package tree

import (
	"math"
	"testing"

	"github.com/bayside-church/magnus-cli/pkg/models"
)

func folder(name, uri string) models.RemoteEntry {
	return models.RemoteEntry{DisplayName: name, URI: uri, IsFolder: true}
}

func file(name, uri string) models.RemoteEntry {
	return models.RemoteEntry{DisplayName: name, URI: uri}
}

func TestFindBestMatch_NoFolders(t *testing.T) {
	entries := []models.RemoteEntry{
		file("Reports", "/reports"),
		file("reports.lava", "/reports.lava"),
	}
	if got := FindBestMatch("reports", entries); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
	if got := FindBestMatch("reports", nil); got != nil {
		t.Errorf("expected nil for empty listing, got %+v", got)
	}
}

func TestFindBestMatch_ExactURIWins(t *testing.T) {
	entries := []models.RemoteEntry{
		folder("templates", "/other"),
		folder("Something Else", "/api/TriumphTech/Magnus/GetTreeItems/Templates"),
	}

	got := FindBestMatch("/templates", entries)
	if got == nil || got.URI != "/api/TriumphTech/Magnus/GetTreeItems/Templates" {
		t.Fatalf("expected stripped URI match, got %+v", got)
	}

	got = FindBestMatch("/API/TriumphTech/Magnus/GetTreeItems/templates", entries)
	if got == nil || got.DisplayName != "Something Else" {
		t.Fatalf("expected raw URI match, got %+v", got)
	}
}

func TestFindBestMatch_ExactURIIgnoresFiles(t *testing.T) {
	entries := []models.RemoteEntry{
		file("x", "/target"),
		folder("target folder", "/folder"),
	}
	got := FindBestMatch("/target", entries)
	if got != nil && got.URI == "/target" {
		t.Fatalf("file entry must never be returned: %+v", got)
	}
}

func TestFindBestMatch_Scoring(t *testing.T) {
	entries := []models.RemoteEntry{
		folder("Lava Application Content", "/lac"),
		folder("Communication Templates", "/comm"),
		folder("Communication", "/comm-exact"),
		folder("Application Rigging", "/rig"),
	}

	tests := []struct {
		query string
		want  string
	}{
		// exact beats prefix
		{"communication", "/comm-exact"},
		{"COMMUNICATION TEMP", "/comm"},
		// contains
		{"rigging", "/rig"},
		// token overlap
		{"lava content", "/lac"},
		// a prefix on "Application Rigging" beats contains on the first entry
		{"application", "/rig"},
	}
	for _, tt := range tests {
		got := FindBestMatch(tt.query, entries)
		if got == nil {
			t.Errorf("FindBestMatch(%q) = nil, want %s", tt.query, tt.want)
			continue
		}
		if got.URI != tt.want {
			t.Errorf("FindBestMatch(%q) = %s, want %s", tt.query, got.URI, tt.want)
		}
	}
}

func TestFindBestMatch_TieKeepsListingOrder(t *testing.T) {
	entries := []models.RemoteEntry{
		folder("Reports", "/first"),
		folder("Reports", "/second"),
	}
	got := FindBestMatch("reports", entries)
	if got == nil || got.URI != "/first" {
		t.Fatalf("expected first entry, got %+v", got)
	}
}

func TestFindBestMatch_NoScore(t *testing.T) {
	entries := []models.RemoteEntry{folder("Reports", "/reports")}
	if got := FindBestMatch("zzz", entries); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
	if got := FindBestMatch("", entries); got != nil {
		t.Errorf("expected nil for empty query, got %+v", got)
	}
}

func TestScoreName(t *testing.T) {
	tests := []struct {
		query, name string
		want        float64
	}{
		{"reports", "Reports", 1000},
		{"rep", "Reports", 500 + 3.0/7.0*100},
		{"port", "Reports", 200 + 4.0/7.0*50},
		{"lava content", "Lava Application Content", 50*4.0/4.0 + 50*7.0/7.0},
		{"xyz", "Reports", 0},
	}
	for _, tt := range tests {
		if got := ScoreName(tt.query, tt.name); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ScoreName(%q, %q) = %v, want %v", tt.query, tt.name, got, tt.want)
		}
	}
}
