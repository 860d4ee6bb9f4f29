// Package runnertest provides a recording CommandRunner for tests.
package runnertest

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/runner"
)

// Handler produces the result of a faked command.
type Handler func(cmd runner.Command) (runner.CommandResult, error)

// Matcher selects the commands a Handler applies to.
type Matcher func(cmd runner.Command) bool

type rule struct {
	match   Matcher
	handler Handler
}

// FakeRunner records every command and answers with registered handlers.
// Commands without a matching handler succeed with empty output.
type FakeRunner struct {
	mu    sync.Mutex
	calls []runner.Command
	paths map[string]string
	rules []rule
}

var _ runner.CommandRunner = (*FakeRunner)(nil)

// New returns a FakeRunner where no tool is on PATH.
func New() *FakeRunner {
	return &FakeRunner{paths: map[string]string{}}
}

// WithPath makes LookPath(name) succeed with path.
func (f *FakeRunner) WithPath(name, path string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.paths[name] = path

	return f
}

// On registers handler for commands accepted by match. Later registrations win.
func (f *FakeRunner) On(match Matcher, handler Handler) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.rules = append(f.rules, rule{match: match, handler: handler})

	return f
}

// Fail makes commands accepted by match fail with err.
func (f *FakeRunner) Fail(match Matcher, err error) *FakeRunner {
	return f.On(match, func(runner.Command) (runner.CommandResult, error) {
		return runner.CommandResult{ExitCode: 1}, err
	})
}

// Respond makes commands accepted by match succeed with stdout.
func (f *FakeRunner) Respond(match Matcher, stdout string) *FakeRunner {
	return f.On(match, func(runner.Command) (runner.CommandResult, error) {
		return runner.CommandResult{Stdout: stdout}, nil
	})
}

// Run implements runner.CommandRunner.
func (f *FakeRunner) Run(_ context.Context, cmd runner.Command) (runner.CommandResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	rules := slices.Clone(f.rules)
	f.mu.Unlock()

	for i := len(rules) - 1; i >= 0; i-- {
		if rules[i].match(cmd) {
			return rules[i].handler(cmd)
		}
	}

	return runner.CommandResult{}, nil
}

// LookPath implements runner.CommandRunner.
func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path, ok := f.paths[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", runner.ErrCommandNotFound, name)
	}

	return path, nil
}

// Calls returns every recorded command in order.
func (f *FakeRunner) Calls() []runner.Command {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.calls)
}

// CallsMatching returns the recorded commands accepted by match.
func (f *FakeRunner) CallsMatching(match Matcher) []runner.Command {
	var matched []runner.Command

	for _, call := range f.Calls() {
		if match(call) {
			matched = append(matched, call)
		}
	}

	return matched
}

// Invoked reports whether any recorded command is accepted by match.
func (f *FakeRunner) Invoked(match Matcher) bool {
	return len(f.CallsMatching(match)) > 0
}

// Named matches commands whose executable base name is name, ignoring a .exe suffix.
func Named(name string) Matcher {
	return func(cmd runner.Command) bool {
		return baseName(cmd.Name) == name
	}
}

// NamedWithArgs matches commands named name whose arguments start with prefix.
func NamedWithArgs(name string, prefix ...string) Matcher {
	return func(cmd runner.Command) bool {
		if baseName(cmd.Name) != name || len(cmd.Args) < len(prefix) {
			return false
		}

		return slices.Equal(cmd.Args[:len(prefix)], prefix)
	}
}

// ArgsContain matches commands with arg anywhere in their arguments.
func ArgsContain(arg string) Matcher {
	return func(cmd runner.Command) bool {
		return slices.Contains(cmd.Args, arg)
	}
}

// All matches commands accepted by every matcher.
func All(matchers ...Matcher) Matcher {
	return func(cmd runner.Command) bool {
		for _, match := range matchers {
			if !match(cmd) {
				return false
			}
		}

		return true
	}
}

func baseName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}

	return strings.TrimSuffix(name, ".exe")
}
