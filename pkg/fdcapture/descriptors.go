//go:build unix

package fdcapture

import "golang.org/x/sys/unix"

// systemDescriptors performs the real system calls.
type systemDescriptors struct{}

// Dup returns a close-on-exec duplicate so child processes never inherit the
// saved original binding.
func (systemDescriptors) Dup(fd int) (int, error) {
	nfd, err := unix.Dup(fd)
	if err != nil {
		return -1, err
	}
	unix.CloseOnExec(nfd)
	return nfd, nil
}

func (systemDescriptors) Dup2(oldfd, newfd int) error {
	return dup2(oldfd, newfd)
}

func (systemDescriptors) Close(fd int) error {
	return unix.Close(fd)
}

func (systemDescriptors) Write(fd int, p []byte) (int, error) {
	return unix.Write(fd, p)
}
