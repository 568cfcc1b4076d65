//go:build linux

package camera

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Available reports whether the capture device node exists and is readable
func Available(id int) bool {
	if id < 0 {
		return false
	}
	return unix.Access(fmt.Sprintf("/dev/video%d", id), unix.R_OK|unix.W_OK) == nil
}
