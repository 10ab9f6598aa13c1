//go:build unix

package jobs

import (
	"os"

	"golang.org/x/sys/unix"
)

// terminalBusy reports whether the controlling terminal's foreground process
// group differs from ours. Errors (stdin is not a tty) read as not busy.
func terminalBusy() bool {
	fd := int(os.Stdin.Fd())
	pgrp, err := unix.IoctlGetInt(fd, unix.TIOCGPGRP)
	if err != nil {
		return false
	}
	return pgrp != unix.Getpgrp()
}
