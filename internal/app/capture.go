package app

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/codingsince1985/checksum"
	"github.com/shini4i/testkit/pkg/fdcapture"
	"github.com/shini4i/testkit/pkg/logpatterns"
	"github.com/shini4i/testkit/pkg/pcre"
	"github.com/shini4i/testkit/pkg/tempfs"
)

// capturedOutput is what one descriptor received during the run.
type capturedOutput struct {
	Fd       int
	Text     string
	Sha      string
	Errors   int
	Warnings int
}

// startCaptures redirects every configured descriptor. On failure the
// captures already started are released.
func (a *App) startCaptures() ([]*fdcapture.Capture, error) {
	captures := make([]*fdcapture.Capture, 0, len(a.cfg.Fds))

	for _, fd := range a.cfg.Fds {
		var (
			c   *fdcapture.Capture
			err error
		)

		opts := []fdcapture.Option{fdcapture.WithLogger(a.logger)}
		if a.cfg.Stream {
			// The callback runs only after New has returned.
			opts = append(opts, fdcapture.WithChunkCallback(func(chunk string) {
				if _, err := io.WriteString(c.Original(), chunk); err != nil {
					a.logger.Warningf("Failed to echo output of descriptor [%d]: %s", c.Target(), err)
				}
			}))
		}

		c, err = fdcapture.New(fd, opts...)
		if err != nil {
			releaseCaptures(captures)
			return nil, fmt.Errorf("failed to capture descriptor %d: %w", fd, err)
		}
		captures = append(captures, c)
	}

	return captures, nil
}

// releaseCaptures closes captures in reverse order of creation.
func releaseCaptures(captures []*fdcapture.Capture) {
	for i := len(captures) - 1; i >= 0; i-- {
		captures[i].Close()
	}
}

// pollCaptures drains new output every poll interval until the returned
// stop function is called.
func (a *App) pollCaptures(captures []*fdcapture.Capture) func() {
	if !a.cfg.Stream {
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		ticker := time.NewTicker(a.cfg.Poll)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				for _, c := range captures {
					if _, err := c.ReadIncremental(); err != nil {
						a.logger.Warningf("Failed to read output of descriptor [%d]: %s", c.Target(), err)
					}
				}
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}

// collect reads the full output of every capture while the sinks still exist.
func (a *App) collect(captures []*fdcapture.Capture) ([]capturedOutput, error) {
	outputs := make([]capturedOutput, 0, len(captures))

	for _, c := range captures {
		text, err := c.Read()
		if err != nil {
			return nil, err
		}

		sha, err := checksum.SHA256sum(c.Path())
		if err != nil {
			return nil, fmt.Errorf("failed to checksum output of descriptor %d: %w", c.Target(), err)
		}

		errorsCount, warningsCount, err := countSeverities(text)
		if err != nil {
			return nil, err
		}

		outputs = append(outputs, capturedOutput{
			Fd:       c.Target(),
			Text:     text,
			Sha:      sha,
			Errors:   errorsCount,
			Warnings: warningsCount,
		})
	}

	return outputs, nil
}

// countSeverities counts error lines, CRITICAL ones included, and warning lines.
func countSeverities(text string) (int, int, error) {
	var errorsCount, warningsCount int

	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}

		isError, err := pcre.Match(logpatterns.ErrorPattern, line)
		if err != nil {
			return 0, 0, err
		}
		isCritical, err := pcre.Match(logpatterns.CriticalPattern, line)
		if err != nil {
			return 0, 0, err
		}
		isWarning, err := pcre.Match(logpatterns.WarningPattern, line)
		if err != nil {
			return 0, 0, err
		}

		if isError || isCritical {
			errorsCount++
		}
		if isWarning {
			warningsCount++
		}
	}

	return errorsCount, warningsCount, nil
}

// combinedText joins the captured output of all descriptors in capture order.
func combinedText(outputs []capturedOutput) string {
	var sb strings.Builder
	for _, out := range outputs {
		sb.WriteString(out.Text)
	}
	return sb.String()
}

func workspaceScope(keep bool) tempfs.Scope {
	if keep {
		return tempfs.Permanent
	}
	return tempfs.DeleteOnDestruction
}
