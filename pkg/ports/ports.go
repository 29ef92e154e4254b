// Package ports declares the operating system collaborators the testkit
// resources depend on, so tests can replace them.
package ports

import "os"

//go:generate mockgen -destination=mocks/mock_ports.go -package=mocks . Descriptors,Environment

// Descriptors wraps the descriptor system calls used to redirect output.
type Descriptors interface {
	Dup(fd int) (int, error)
	Dup2(oldfd, newfd int) error
	Close(fd int) error
	Write(fd int, p []byte) (int, error)
}

// Environment exposes the process environment block.
type Environment interface {
	Environ() []string
	Setenv(key, value string) error
	Unsetenv(key string) error
}

// OsEnvironment wraps the process environment functions of the os package.
type OsEnvironment struct{}

// Environ mirrors os.Environ to allow abstraction in tests.
func (OsEnvironment) Environ() []string {
	return os.Environ()
}

func (OsEnvironment) Setenv(key, value string) error {
	return os.Setenv(key, value)
}

func (OsEnvironment) Unsetenv(key string) error {
	return os.Unsetenv(key)
}
