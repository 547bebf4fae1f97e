//go:build windows

package pull

import "golang.org/x/sys/windows"

var accessDeniedErrnos = []error{
	windows.ERROR_ACCESS_DENIED,
	windows.ERROR_SHARING_VIOLATION,
	windows.ERROR_WRITE_PROTECT,
}
