// Package models contains the data types shared by the client and the pull engine.
package models

// RemoteEntry represents one node of the remote tree as returned by a listing call.
//
// URI addresses the server; DisplayName is a human label used only for
// matching and for deriving local names.
type RemoteEntry struct {
	DisplayName string `json:"DisplayName"`
	URI         string `json:"Uri"`
	IsFolder    bool   `json:"IsFolder"`
	Icon        string `json:"Icon,omitempty"`
}

// Folders returns the folder entries of entries, preserving listing order.
func Folders(entries []RemoteEntry) []RemoteEntry {
	var out []RemoteEntry
	for _, e := range entries {
		if e.IsFolder {
			out = append(out, e)
		}
	}
	return out
}

// Files returns the non-folder entries of entries, preserving listing order.
func Files(entries []RemoteEntry) []RemoteEntry {
	var out []RemoteEntry
	for _, e := range entries {
		if !e.IsFolder {
			out = append(out, e)
		}
	}
	return out
}
