package ports

import (
	"context"

	pkgports "github.com/shini4i/testkit/pkg/ports"
)

//go:generate mockgen -destination=mocks/mock_ports.go -package=mocks . CmdRunner,Globber

// Descriptors and Environment are declared in pkg/ports so modules importing
// the library can replace them too.
type (
	Descriptors = pkgports.Descriptors
	Environment = pkgports.Environment
)

// CmdRunner executes a child process that inherits the current stdio descriptors.
type CmdRunner interface {
	Run(ctx context.Context, name string, args []string) error
}

// Globber expands filesystem patterns into matching paths.
type Globber interface {
	Glob(pattern string) ([]string, error)
}
