package pull

import (
	"regexp"
	"slices"
	"strings"
)

// specialFolderNames keep their full display name locally.
var specialFolderNames = []string{"Lava Application Content", "Application Rigging"}

var whitespaceRun = regexp.MustCompile(`\s+`)

var bracketStripper = strings.NewReplacer("[", "", "]", "")

// FolderName derives the local folder name for a remote folder: the trimmed
// display name for the special folders, otherwise its first word. An empty
// result means the folder cannot be materialized.
func FolderName(displayName string) string {
	name := strings.TrimSpace(displayName)
	if slices.Contains(specialFolderNames, name) {
		return name
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// EndpointName derives the flat file stem for an endpoint folder:
// "Get Person [v2]" becomes "get-person-v2".
func EndpointName(displayName string) string {
	name := strings.ToLower(displayName)
	name = whitespaceRun.ReplaceAllString(name, "-")
	return bracketStripper.Replace(name)
}
