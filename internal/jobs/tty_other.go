//go:build !unix

package jobs

func terminalBusy() bool {
	return false
}
