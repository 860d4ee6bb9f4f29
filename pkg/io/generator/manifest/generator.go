// Package manifestgenerator renders the pinned dependency manifest synced into the virtual environment.
package manifestgenerator

import (
	"fmt"
	"strings"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/apis/setup/v1alpha1"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/fsutil"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/io/generator"
)

// Generator writes a requirements file: one package specifier per line,
// preceded by the flavor's extra index.
type Generator struct{}

var _ generator.Generator[v1alpha1.CUDARuntime, generator.FileOptions] = (*Generator)(nil)

// NewGenerator creates and returns a new Generator instance.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the manifest for runtime and writes it to opts.Output when set.
func (g *Generator) Generate(runtime v1alpha1.CUDARuntime, opts generator.FileOptions) (string, error) {
	out := Render(runtime, v1alpha1.CorePackages())

	if opts.Output != "" {
		result, err := fsutil.TryWriteFile(out, opts.Output, opts.Force, fsutil.FilePermRegular)
		if err != nil {
			return "", fmt.Errorf("write manifest: %w", err)
		}

		return result, nil
	}

	return out, nil
}

// Render builds the manifest text.
func Render(runtime v1alpha1.CUDARuntime, packages []string) string {
	var builder strings.Builder

	builder.WriteString("--extra-index-url " + runtime.IndexURL + "\n")
	builder.WriteString("torch==" + runtime.Torch + "\n")
	builder.WriteString("torchvision==" + runtime.TorchVision + "\n")

	for _, pkg := range packages {
		builder.WriteString(pkg + "\n")
	}

	return builder.String()
}
