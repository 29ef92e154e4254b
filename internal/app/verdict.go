package app

import (
	"fmt"

	"github.com/shini4i/testkit/internal/models"
	"github.com/shini4i/testkit/pkg/pcre"
)

// evaluate runs every configured check against the captured output.
func (a *App) evaluate(exitCode int, timedOut bool, outputs []capturedOutput, goldenPath string) models.RunReport {
	report := models.RunReport{
		Command:  a.cfg.Command,
		ExitCode: exitCode,
		TimedOut: timedOut,
	}

	var errorLines, warningLines int
	for _, out := range outputs {
		report.Captures = append(report.Captures, models.CaptureReport{
			Fd:       out.Fd,
			Bytes:    len(out.Text),
			Sha256:   out.Sha,
			Errors:   out.Errors,
			Warnings: out.Warnings,
		})
		errorLines += out.Errors
		warningLines += out.Warnings
	}

	report.Checks = append(report.Checks, exitCheck(exitCode, timedOut))

	if check, ok := severityCheck(a.cfg.FailOn, errorLines, warningLines); ok {
		report.Checks = append(report.Checks, check)
	}

	text := combinedText(outputs)
	for _, pattern := range a.cfg.Expect {
		report.Checks = append(report.Checks, patternCheck("expect", pattern, text, true))
	}
	for _, pattern := range a.cfg.Reject {
		report.Checks = append(report.Checks, patternCheck("reject", pattern, text, false))
	}

	if goldenPath != "" {
		report.Checks = append(report.Checks, a.goldenCheck(goldenPath, text))
	}

	report.Passed = len(report.Failed()) == 0

	return report
}

func exitCheck(exitCode int, timedOut bool) models.CheckResult {
	check := models.CheckResult{
		Name:   "exit status",
		Passed: exitCode == 0 && !timedOut,
		Detail: fmt.Sprintf("exit code %d", exitCode),
	}
	if timedOut {
		check.Detail += ", timed out"
	}
	return check
}

// severityCheck reports whether captured log lines at or above failOn are
// present. It returns false when no severity check is configured.
func severityCheck(failOn models.FailOn, errorLines, warningLines int) (models.CheckResult, bool) {
	detail := fmt.Sprintf("%d error and %d warning lines", errorLines, warningLines)

	switch failOn {
	case models.FailOnError:
		return models.CheckResult{Name: "no error lines", Passed: errorLines == 0, Detail: detail}, true
	case models.FailOnWarning:
		return models.CheckResult{Name: "no error or warning lines", Passed: errorLines+warningLines == 0, Detail: detail}, true
	default:
		return models.CheckResult{}, false
	}
}

func patternCheck(kind, pattern, text string, want bool) models.CheckResult {
	check := models.CheckResult{Name: fmt.Sprintf("%s %q", kind, pattern)}

	matched, err := pcre.Match(pattern, text)
	switch {
	case err != nil:
		check.Detail = err.Error()
	case matched != want && want:
		check.Detail = "pattern does not match the captured output"
	case matched != want:
		check.Detail = "pattern matches the captured output"
	default:
		check.Passed = true
	}

	return check
}
