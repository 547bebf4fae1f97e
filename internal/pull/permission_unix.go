//go:build unix

package pull

import "golang.org/x/sys/unix"

var accessDeniedErrnos = []error{unix.EACCES, unix.EPERM, unix.EROFS}
