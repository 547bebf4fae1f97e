//go:build !unix && !windows

package pull

var accessDeniedErrnos []error
