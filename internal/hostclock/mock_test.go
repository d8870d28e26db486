package hostclock

import (
	"strings"

	"github.com/osa030/toadb/internal/execx"
)

// fakeCommander scripts host command execution for applier tests.
type fakeCommander struct {
	// available names answer Have; runFn scripts Run.
	available map[string]bool
	runFn     func(name string, args ...string) (execx.Result, error)
	calls     []string
}

func (f *fakeCommander) Run(name string, args ...string) (execx.Result, error) {
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	if f.runFn != nil {
		return f.runFn(name, args...)
	}
	return execx.Result{}, nil
}

func (f *fakeCommander) Have(name string) bool {
	return f.available[name]
}

func (f *fakeCommander) calledWithPrefix(prefix string) bool {
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}
