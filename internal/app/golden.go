package app

import (
	"fmt"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"github.com/shini4i/testkit/internal/models"
	"github.com/spf13/afero"
)

const capturedLabel = "captured"

// goldenCheck compares the captured output with the golden file byte for
// byte. On mismatch the detail holds a unified diff from golden to captured.
func (a *App) goldenCheck(goldenPath, captured string) models.CheckResult {
	check := models.CheckResult{Name: fmt.Sprintf("golden %s", goldenPath)}

	want, err := afero.ReadFile(a.fs, goldenPath)
	if err != nil {
		check.Detail = fmt.Sprintf("failed to read golden file: %s", err)
		return check
	}

	if string(want) == captured {
		check.Passed = true
		return check
	}

	check.Detail = unifiedDiff(goldenPath, string(want), captured)
	return check
}

func unifiedDiff(goldenPath, want, got string) string {
	edits := myers.ComputeEdits(span.URIFromPath(goldenPath), want, got)
	return fmt.Sprint(gotextdiff.ToUnified(goldenPath, capturedLabel, want, edits))
}
