package tree

import (
	"strings"
	"unicode/utf8"

	"github.com/bayside-church/magnus-cli/pkg/models"
)

// Scores assigned by ScoreName.
const (
	scoreExact    = 1000
	scorePrefix   = 500
	scoreContains = 200
	scoreToken    = 50
)

// Candidate is a folder entry paired with its match score.
type Candidate struct {
	Entry models.RemoteEntry
	Score float64
}

// FindBestMatch resolves a user-typed directory name against entries. Only
// folders are eligible. An exact URI match (with or without the remote root
// prefix) wins outright; otherwise the folder with the highest display-name
// score wins, and the first one in listing order wins ties. Returns nil if
// no folder scores above zero.
func FindBestMatch(query string, entries []models.RemoteEntry) *models.RemoteEntry {
	c, ok := BestCandidate(query, entries)
	if !ok {
		return nil
	}
	return &c.Entry
}

// BestCandidate is FindBestMatch returning the winning score as well. An
// exact URI match is reported with twice the exact-name score.
func BestCandidate(query string, entries []models.RemoteEntry) (Candidate, bool) {
	folders := models.Folders(entries)
	if len(folders) == 0 || query == "" {
		return Candidate{}, false
	}

	for _, dir := range folders {
		if strings.EqualFold(dir.URI, query) || strings.EqualFold(StripRoot(dir.URI), query) {
			return Candidate{Entry: dir, Score: 2 * scoreExact}, true
		}
	}

	var best Candidate
	found := false
	for _, dir := range folders {
		score := ScoreName(query, dir.DisplayName)
		if score > best.Score {
			best = Candidate{Entry: dir, Score: score}
			found = true
		}
	}
	return best, found
}

// ScoreName scores how well query matches a display name, case-insensitively.
func ScoreName(query, displayName string) float64 {
	search := strings.ToLower(query)
	name := strings.ToLower(displayName)

	switch {
	case name == search:
		return scoreExact
	case strings.HasPrefix(name, search):
		return scorePrefix + ratio(search, name)*100
	case strings.Contains(name, search):
		return scoreContains + ratio(search, name)*50
	}

	var score float64
	nameWords := strings.Fields(name)
	for _, searchWord := range strings.Fields(search) {
		for _, nameWord := range nameWords {
			if strings.Contains(nameWord, searchWord) {
				score += scoreToken * ratio(searchWord, nameWord)
			}
		}
	}
	return score
}

func ratio(part, whole string) float64 {
	n := utf8.RuneCountInString(whole)
	if n == 0 {
		return 0
	}
	return float64(utf8.RuneCountInString(part)) / float64(n)
}
