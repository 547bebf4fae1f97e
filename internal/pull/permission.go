package pull

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/bayside-church/magnus-cli/pkg/client"
)

// permissionMarkers identify access failures in errors that carry no
// structured classification.
var permissionMarkers = []string{
	"permission denied",
	"access denied",
	"eacces",
	"eperm",
	"401",
	"403",
	"forbidden",
	"unauthorized",
}

// IsPermission reports whether err is an access failure that should skip the
// current entry rather than fail it.
//
// API errors are judged by their Kind alone. Filesystem errors are matched
// against fs.ErrPermission and the platform's access-denied errnos. Anything
// else falls back to message markers.
func IsPermission(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == client.KindAccessDenied
	}

	if errors.Is(err, fs.ErrPermission) {
		return true
	}
	for _, errno := range accessDeniedErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range permissionMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
