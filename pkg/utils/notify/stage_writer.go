package notify

import (
	"fmt"
	"io"
	"sync"
	"unicode"
	"unicode/utf8"
)

// StageSeparatingWriter wraps an io.Writer and adds a blank line before every
// step title except the first. A title line starts with a pictographic emoji
// such as "📦 Install runtime...".
//
//	writer := notify.NewStageSeparatingWriter(cmd.OutOrStdout())
//	cmd.SetOut(writer)
type StageSeparatingWriter struct {
	underlying io.Writer
	hasWritten bool // Whether any content has been written
	mu         sync.Mutex
}

// NewStageSeparatingWriter creates a new StageSeparatingWriter wrapping the given writer.
func NewStageSeparatingWriter(underlying io.Writer) *StageSeparatingWriter {
	return &StageSeparatingWriter{
		underlying: underlying,
	}
}

// Write implements io.Writer.
func (w *StageSeparatingWriter) Write(data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(data) == 0 {
		return 0, nil
	}

	if w.hasWritten && startsWithEmoji(data) {
		_, writeErr := w.underlying.Write([]byte{'\n'})
		if writeErr != nil {
			return 0, fmt.Errorf("failed to write stage separator: %w", writeErr)
		}
	}

	bytesWritten, err := w.underlying.Write(data)
	if bytesWritten > 0 {
		w.hasWritten = true
	}

	if err != nil {
		return bytesWritten, fmt.Errorf("failed to write data: %w", err)
	}

	return bytesWritten, nil
}

// Reset makes the next title behave like the first output.
func (w *StageSeparatingWriter) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.hasWritten = false
}

// HasWritten returns whether any content has been written.
func (w *StageSeparatingWriter) HasWritten() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.hasWritten
}

// startsWithEmoji reports whether data starts with a title emoji.
// Message symbols (►, ✔, ✗, ⚠, ℹ, ✚, ↷, ⏲) are symbols too and are excluded.
func startsWithEmoji(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	firstRune, _ := utf8.DecodeRune(data)
	if firstRune == utf8.RuneError {
		return false
	}

	switch firstRune {
	case '►', // Activity
		'✔', // Success
		'✗', // Error
		'⚠', // Warning
		'ℹ', // Info
		'✚', // Generate
		'↷', // Skip
		'⏲': // Timer
		return false
	}

	return unicode.Is(unicode.So, firstRune)
}
