// Package tree provides utilities for working with remote tree paths and
// resolving user-typed names against a listing.
package tree

import (
	"path"
	"strings"
)

const (
	// RootDirectory is the sentinel path for the top of the remote tree.
	RootDirectory = "root"

	// RemoteRootPrefix is prepended by the server to the URIs it lists.
	RemoteRootPrefix = "/api/TriumphTech/Magnus/GetTreeItems"
)

// endpointPrefixes mark application endpoint folders, with and without the
// listing route in front.
var endpointPrefixes = []string{
	"/lavaapplication/application-endpoints/",
	RemoteRootPrefix + "/lavaapplication/application-endpoints/",
}

// StripRoot removes the server's listing prefix from a URI.
func StripRoot(uri string) string {
	return strings.Replace(uri, RemoteRootPrefix, "", 1)
}

// IsEndpointPath reports whether p addresses application endpoint folders.
func IsEndpointPath(p string) bool {
	for _, prefix := range endpointPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// BaseName returns the final "/"-separated segment of a remote URI.
func BaseName(uri string) string {
	return path.Base(uri)
}

// Ext returns the extension of a remote URI including the leading dot.
func Ext(uri string) string {
	return path.Ext(uri)
}

// DisplayPath is how a URI is shown to the user.
func DisplayPath(uri string) string {
	return StripRoot(uri)
}
