// Package execx runs host commands as blocking child processes with
// captured output.
package execx

import (
	"bytes"
	"os/exec"

	"github.com/cockroachdb/errors"
)

// Result holds the captured outcome of one child process.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// OK reports whether the process exited with status zero.
func (r Result) OK() bool {
	return r.ExitCode == 0
}

// Commander abstracts command execution and PATH lookups so appliers can be
// exercised against fakes.
type Commander interface {
	Run(name string, args ...string) (Result, error)
	Have(name string) bool
}

// System is the real Commander.
type System struct{}

// Run executes the command and captures its output. A nonzero exit is
// reported through Result; err is reserved for invocation failures such as
// a missing binary.
func (System) Run(name string, args ...string) (Result, error) {
	return Run(name, args...)
}

// Have reports whether name resolves on PATH.
func (System) Have(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Run executes a command with captured text output.
func Run(name string, args ...string) (Result, error) {
	cmd := exec.Command(name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}
	return res, nil
}
