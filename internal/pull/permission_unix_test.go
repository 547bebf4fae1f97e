//go:build unix

package pull

import (
	"io/fs"
	"testing"

	"golang.org/x/sys/unix"
)

func TestIsPermission_Errno(t *testing.T) {
	for _, errno := range []unix.Errno{unix.EACCES, unix.EPERM, unix.EROFS} {
		err := &fs.PathError{Op: "open", Path: "/ro/file", Err: errno}
		if !IsPermission(err) {
			t.Errorf("IsPermission(%v) = false, want true", errno)
		}
	}

	if IsPermission(&fs.PathError{Op: "open", Path: "/x", Err: unix.ENOSPC}) {
		t.Error("ENOSPC should not be a permission error")
	}
}
