//go:build linux

package fdcapture

import "golang.org/x/sys/unix"

// dup2 goes through dup3, which every linux architecture provides.
func dup2(oldfd, newfd int) error {
	if oldfd == newfd {
		return nil
	}
	return unix.Dup3(oldfd, newfd, 0)
}
