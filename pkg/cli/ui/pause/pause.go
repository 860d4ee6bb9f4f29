// Package pause holds the "press any key" prompt shown before the installer exits.
package pause

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/notify"
	"golang.org/x/term"
)

// Test override variables with mutexes for thread safety.
var (
	//nolint:gochecknoglobals // dependency injection for tests
	stdinReaderMu sync.RWMutex
	//nolint:gochecknoglobals // dependency injection for tests
	stdinReaderOverride io.Reader

	//nolint:gochecknoglobals // dependency injection for tests
	ttyCheckerMu sync.RWMutex
	//nolint:gochecknoglobals // dependency injection for tests
	ttyCheckerOverride func() bool
)

// SetStdinReaderForTests overrides the stdin reader for testing.
// Returns a restore function that should be called to reset the override.
func SetStdinReaderForTests(reader io.Reader) func() {
	stdinReaderMu.Lock()

	previous := stdinReaderOverride
	stdinReaderOverride = reader

	stdinReaderMu.Unlock()

	return func() {
		stdinReaderMu.Lock()

		stdinReaderOverride = previous

		stdinReaderMu.Unlock()
	}
}

// SetTTYCheckerForTests overrides the TTY checker for testing.
// Returns a restore function that should be called to reset the override.
func SetTTYCheckerForTests(checker func() bool) func() {
	ttyCheckerMu.Lock()

	previous := ttyCheckerOverride
	ttyCheckerOverride = checker

	ttyCheckerMu.Unlock()

	return func() {
		ttyCheckerMu.Lock()

		ttyCheckerOverride = previous

		ttyCheckerMu.Unlock()
	}
}

func stdinOverride() io.Reader {
	stdinReaderMu.RLock()
	defer stdinReaderMu.RUnlock()

	return stdinReaderOverride
}

// IsTTY returns true if stdin is connected to a terminal.
func IsTTY() bool {
	ttyCheckerMu.RLock()

	override := ttyCheckerOverride

	ttyCheckerMu.RUnlock()

	if override != nil {
		return override()
	}

	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ShouldSkip returns true when no prompt should be shown:
// the user passed --no-pause, or stdin is not a terminal (CI, pipes).
func ShouldSkip(noPause bool) bool {
	return noPause || !IsTTY()
}

// WaitForKey prints the prompt and blocks until a single key is pressed.
func WaitForKey(writer io.Writer) error {
	notify.Infof(writer, "Press any key to exit...")

	if reader := stdinOverride(); reader != nil {
		return readOne(reader)
	}

	fd := int(os.Stdin.Fd())

	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}

	defer func() { _ = term.Restore(fd, state) }()

	return readOne(os.Stdin)
}

// Prompt waits for a key unless ShouldSkip(noPause) holds.
func Prompt(writer io.Writer, noPause bool) error {
	if ShouldSkip(noPause) {
		return nil
	}

	return WaitForKey(writer)
}

func readOne(reader io.Reader) error {
	buf := make([]byte, 1)

	_, err := reader.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read key: %w", err)
	}

	return nil
}
