package app

import (
	"fmt"
	"strings"

	"github.com/shini4i/testkit/internal/helpers"
	"github.com/shini4i/testkit/internal/models"
	"gopkg.in/yaml.v3"
)

const currentCheckPrintPattern = "%s %s\n"

// present prints one line per check, the details of failed checks and the
// overall verdict.
func (a *App) present(report models.RunReport) {
	for _, check := range report.Checks {
		status := green("PASS")
		if !check.Passed {
			status = red("FAIL")
		}
		fmt.Fprintf(a.out, currentCheckPrintPattern, status, check.Name)

		if !check.Passed && check.Detail != "" {
			fmt.Fprintln(a.out, indent(check.Detail))
		}
	}

	for _, capture := range report.Captures {
		a.logger.Debugf("▶ fd %d: %d bytes, sha256 %s", capture.Fd, capture.Bytes, capture.Sha256)
	}

	if report.Passed {
		fmt.Fprintf(a.out, "===> %s in %s\n", green("PASSED"), report.Duration)
		return
	}

	failed := len(report.Failed())
	checkText := "check"
	if failed > 1 {
		checkText = "checks"
	}
	fmt.Fprintf(a.out, "===> %s: %s %s failed\n", red("FAILED"), yellow(failed), checkText)
}

func (a *App) writeReport(path string, report models.RunReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := helpers.WriteToFile(a.fs, path, data); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}

	a.logger.Infof("Report written to [%s]", cyan(path))
	return nil
}

func indent(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "    " + line
	}
	return strings.Join(lines, "\n")
}
