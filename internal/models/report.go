package models

// RunReport is written as YAML after a run.
type RunReport struct {
	Command  []string        `yaml:"command"`
	ExitCode int             `yaml:"exit_code"`
	TimedOut bool            `yaml:"timed_out,omitempty"`
	Workdir  string          `yaml:"workdir,omitempty"`
	Duration string          `yaml:"duration"`
	Captures []CaptureReport `yaml:"captures"`
	Checks   []CheckResult   `yaml:"checks"`
	Passed   bool            `yaml:"passed"`
}

// CaptureReport describes the output captured from one descriptor.
type CaptureReport struct {
	Fd       int    `yaml:"fd"`
	Bytes    int    `yaml:"bytes"`
	Sha256   string `yaml:"sha256"`
	Errors   int    `yaml:"errors"`
	Warnings int    `yaml:"warnings"`
}

type CheckResult struct {
	Name   string `yaml:"name"`
	Passed bool   `yaml:"passed"`
	Detail string `yaml:"detail,omitempty"`
}

// Failed returns the checks that did not pass.
func (r RunReport) Failed() []CheckResult {
	var failed []CheckResult
	for _, check := range r.Checks {
		if !check.Passed {
			failed = append(failed, check)
		}
	}
	return failed
}
