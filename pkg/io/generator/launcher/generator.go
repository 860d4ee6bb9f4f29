// Package launchergenerator renders the helper scripts written next to the installation.
package launchergenerator

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/apis/setup/v1alpha1"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/fsutil"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/io/generator"
)

// ErrUnknownKind is returned for an unsupported launcher kind.
var ErrUnknownKind = errors.New("unknown launcher kind")

//go:embed templates/*.tmpl
var templateFS embed.FS

// Kind selects which launcher to render.
type Kind string

const (
	// KindShell activates the environment and prints usage hints.
	KindShell Kind = "shell"
	// KindSmokeTest imports the core capabilities and pauses.
	KindSmokeTest Kind = "smoke-test"
)

// Kinds returns every launcher kind in generation order.
func Kinds() []Kind {
	return []Kind{KindShell, KindSmokeTest}
}

// Model holds the values substituted into the launcher templates.
type Model struct {
	// Windows selects batch files instead of bash scripts.
	Windows          bool
	CUDA             v1alpha1.CUDAFlavor
	ActivationScript string
	RepositoryPath   string
	ModelCachePath   string
	SmokeTest        []string
}

// NewModel builds a Model from the resolved configuration.
func NewModel(cfg *v1alpha1.InstallConfig, windows bool) Model {
	return Model{
		Windows:          windows,
		CUDA:             cfg.CUDA,
		ActivationScript: cfg.ActivationScript(),
		RepositoryPath:   cfg.RepositoryPath(),
		ModelCachePath:   cfg.ModelCachePath(),
		SmokeTest:        v1alpha1.SmokeTestCapabilities(),
	}
}

// SmokeTestName is the file name of the smoke test launcher.
func (m Model) SmokeTestName() string {
	return FileName(KindSmokeTest, m.Windows)
}

// ImportCheck is the one-line Python program run by the smoke test.
// It only uses single quotes so it can be embedded in a double-quoted argument.
func (m Model) ImportCheck() string {
	return fmt.Sprintf(
		"import %s; print('torch', torch.__version__, '| CUDA available:', torch.cuda.is_available())",
		strings.Join(m.SmokeTest, ", "),
	)
}

// ShellQuote quotes value as a single POSIX shell word. Embedded single quotes
// are closed, escaped and reopened.
func ShellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}

// Options controls rendering of a single launcher.
type Options struct {
	generator.FileOptions

	Kind Kind
}

// Generator renders launcher scripts.
type Generator struct {
	templates *template.Template
}

var _ generator.Generator[Model, Options] = (*Generator)(nil)

// NewGenerator parses the embedded templates.
func NewGenerator() (*Generator, error) {
	funcs := sprig.TxtFuncMap()
	funcs["shquote"] = ShellQuote

	templates, err := template.New("launchers").
		Funcs(funcs).
		ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse launcher templates: %w", err)
	}

	return &Generator{templates: templates}, nil
}

// FileName returns the launcher file name for kind.
func FileName(kind Kind, windows bool) string {
	extension := ".sh"
	if windows {
		extension = ".bat"
	}

	return "hunyuan3d-" + string(kind) + extension
}

// Generate renders one launcher and writes it to opts.Output when set.
func (g *Generator) Generate(model Model, opts Options) (string, error) {
	if opts.Kind != KindShell && opts.Kind != KindSmokeTest {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, opts.Kind)
	}

	name := string(opts.Kind) + ".sh.tmpl"
	if model.Windows {
		name = string(opts.Kind) + ".bat.tmpl"
	}

	var buf bytes.Buffer

	err := g.templates.ExecuteTemplate(&buf, name, model)
	if err != nil {
		return "", fmt.Errorf("render %s launcher: %w", opts.Kind, err)
	}

	out := buf.String()
	if model.Windows {
		out = strings.ReplaceAll(out, "\n", "\r\n")
	}

	if opts.Output != "" {
		result, err := fsutil.TryWriteFile(out, opts.Output, opts.Force, fsutil.FilePermExecutable)
		if err != nil {
			return "", fmt.Errorf("write %s launcher: %w", opts.Kind, err)
		}

		return result, nil
	}

	return out, nil
}
