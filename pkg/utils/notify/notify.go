package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/timer"
	fcolor "github.com/fatih/color"
	"github.com/mitchellh/go-wordwrap"
	"golang.org/x/term"
)

// Message type constants.
// Each type determines the message styling (color and symbol).
const (
	// ErrorType represents an error message (red, with ✗ symbol).
	ErrorType MessageType = iota
	// WarningType represents a warning message (yellow, with ⚠ symbol).
	WarningType
	// ActivityType represents an external command in progress (default color, with ► symbol).
	ActivityType
	// GenerateType represents a generated file (default color, with ✚ symbol).
	GenerateType
	// SuccessType represents a success message (green, with ✔ symbol).
	SuccessType
	// SkipType represents a step whose effect already exists (cyan, with ↷ symbol).
	SkipType
	// InfoType represents an informational message (blue, with ℹ symbol).
	InfoType
	// TitleType represents a step title (bold, with emoji).
	TitleType
)

// DefaultWrapWidth is used for diagnostics when the terminal width is unknown.
const DefaultWrapWidth = 100

// MessageType defines the type of notification message.
type MessageType int

// Message represents a notification message to be displayed to the user.
type Message struct {
	// Type determines the message styling (color, symbol).
	Type MessageType
	// Content is the main message text to display.
	Content string
	// Timer is optional. Success messages print step and total timing when set.
	Timer timer.Timer
	// Emoji is used only for TitleType messages.
	Emoji string
	// Writer is the output destination. If nil, defaults to os.Stdout.
	Writer io.Writer
	// Args are format arguments for Content.
	Args []any
}

// Errorf writes an error message to the writer.
func Errorf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ErrorType, Content: format, Args: args, Writer: writer})
}

// Warningf writes a warning message to the writer.
func Warningf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: WarningType, Content: format, Args: args, Writer: writer})
}

// Activityf writes an activity message to the writer.
func Activityf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ActivityType, Content: format, Args: args, Writer: writer})
}

// Generatef writes a file generation message to the writer.
func Generatef(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: GenerateType, Content: format, Args: args, Writer: writer})
}

// Successf writes a success message to the writer.
func Successf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: SuccessType, Content: format, Args: args, Writer: writer})
}

// SuccessWithTimerf writes a success message followed by the timing block.
func SuccessWithTimerf(writer io.Writer, tmr timer.Timer, format string, args ...any) {
	WriteMessage(Message{Type: SuccessType, Content: format, Args: args, Timer: tmr, Writer: writer})
}

// Skipf writes an already-satisfied message to the writer.
func Skipf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: SkipType, Content: format, Args: args, Writer: writer})
}

// Infof writes an informational message to the writer.
func Infof(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: InfoType, Content: format, Args: args, Writer: writer})
}

// Titlef writes a step title with an emoji to the writer.
func Titlef(writer io.Writer, emoji, format string, args ...any) {
	WriteMessage(Message{
		Type:    TitleType,
		Content: fmt.Sprintf(format, args...),
		Emoji:   emoji,
		Writer:  writer,
	})
}

// Diagnosticf writes an error message word-wrapped to the terminal width.
// Long command output embedded in errors stays readable in narrow consoles.
func Diagnosticf(writer io.Writer, format string, args ...any) {
	content := fmt.Sprintf(format, args...)
	width := wrapWidth(writer)
	symbolWidth := len([]rune(getMessageConfig(ErrorType).symbol))

	if width > symbolWidth {
		content = wordwrap.WrapString(content, uint(width-symbolWidth)) //nolint:gosec // width is positive
	}

	WriteMessage(Message{Type: ErrorType, Content: content, Writer: writer})
}

// WriteMessage writes a formatted message based on the message configuration.
func WriteMessage(msg Message) {
	if msg.Writer == nil {
		msg.Writer = os.Stdout
	}

	content := msg.Content
	if len(msg.Args) > 0 {
		content = fmt.Sprintf(msg.Content, msg.Args...)
	}

	config := getMessageConfig(msg.Type)

	content = indentMultilineContent(content, config.symbol)

	if msg.Type == TitleType {
		emoji := msg.Emoji
		if emoji == "" {
			emoji = "ℹ️"
		}

		_, err := config.color.Fprintf(msg.Writer, "%s %s\n", emoji, content)
		handleNotifyError(err)

		return
	}

	_, err := config.color.Fprintf(msg.Writer, "%s%s\n", config.symbol, content)
	handleNotifyError(err)

	if msg.Type == SuccessType && msg.Timer != nil {
		total, stage := msg.Timer.GetTiming()

		_, err = config.color.Fprintf(msg.Writer, "⏲ step:  %s\n", stage.String())
		handleNotifyError(err)
		_, err = config.color.Fprintf(msg.Writer, "  total: %s\n", total.String())
		handleNotifyError(err)
	}
}

type messageConfig struct {
	symbol string
	color  *fcolor.Color
}

func getMessageConfig(msgType MessageType) messageConfig {
	switch msgType {
	case ErrorType:
		return messageConfig{symbol: "✗ ", color: fcolor.New(fcolor.FgRed)}
	case WarningType:
		return messageConfig{symbol: "⚠ ", color: fcolor.New(fcolor.FgYellow)}
	case ActivityType:
		return messageConfig{symbol: "► ", color: fcolor.New(fcolor.Reset)}
	case GenerateType:
		return messageConfig{symbol: "✚ ", color: fcolor.New(fcolor.Reset)}
	case SuccessType:
		return messageConfig{symbol: "✔ ", color: fcolor.New(fcolor.FgGreen)}
	case SkipType:
		return messageConfig{symbol: "↷ ", color: fcolor.New(fcolor.FgCyan)}
	case InfoType:
		return messageConfig{symbol: "ℹ ", color: fcolor.New(fcolor.FgBlue)}
	case TitleType:
		return messageConfig{symbol: "", color: fcolor.New(fcolor.Reset, fcolor.Bold)}
	default:
		return messageConfig{symbol: "", color: fcolor.New(fcolor.Reset)}
	}
}

// handleNotifyError reports print failures on stderr instead of interrupting the run.
func handleNotifyError(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "notify: failed to print message: %v\n", err)
	}
}

// indentMultilineContent aligns continuation lines with the first line's text.
func indentMultilineContent(content, symbol string) string {
	if symbol == "" || !strings.Contains(content, "\n") {
		return content
	}

	indent := strings.Repeat(" ", len([]rune(symbol)))
	lines := strings.Split(content, "\n")

	for i := 1; i < len(lines); i++ {
		if lines[i] == "" {
			continue
		}

		lines[i] = indent + lines[i]
	}

	return strings.Join(lines, "\n")
}

// wrapWidth returns the terminal width behind writer, or DefaultWrapWidth.
func wrapWidth(writer io.Writer) int {
	file, ok := writer.(*os.File)
	if !ok {
		return DefaultWrapWidth
	}

	fd := int(file.Fd()) //nolint:gosec // file descriptors fit in int
	if !term.IsTerminal(fd) {
		return DefaultWrapWidth
	}

	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return DefaultWrapWidth
	}

	return width
}
