// Package ui holds small terminal helpers shared by the commands.
package ui

import (
	"fmt"
	"io"
)

// SetTerminalTitle sets the terminal window title using the OSC 0 escape sequence.
// Windows Terminal, conhost and most Unix terminals honour it.
func SetTerminalTitle(writer io.Writer, title string) {
	_, _ = fmt.Fprintf(writer, "\033]0;%s\007", title)
}
