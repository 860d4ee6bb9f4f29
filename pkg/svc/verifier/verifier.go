// Package verifier probes the virtual environment for the expected Python
// capabilities and reports which of them import.
package verifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/apis/setup/v1alpha1"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/io/marshaller"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/notify"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/runner"
)

// ErrNoProbeOutput is returned when the probe printed no result line.
var ErrNoProbeOutput = errors.New("probe produced no result")

const probeTemplate = `import importlib, json
result = {}
for name in %s:
    try:
        importlib.import_module(name)
        result[name] = True
    except Exception:
        result[name] = False
print(json.dumps(result))
`

// Verifier runs the import probe with a throwaway interpreter.
type Verifier struct {
	runner       runner.CommandRunner
	capabilities []string
}

// NewVerifier returns a Verifier for the fixed capability list.
func NewVerifier(cmdRunner runner.CommandRunner) *Verifier {
	return &Verifier{
		runner:       cmdRunner,
		capabilities: v1alpha1.Capabilities(),
	}
}

// ProbeScript returns the Python program passed to the interpreter.
func (v *Verifier) ProbeScript() string {
	quoted := make([]string, 0, len(v.capabilities))
	for _, name := range v.capabilities {
		quoted = append(quoted, "'"+name+"'")
	}

	return fmt.Sprintf(probeTemplate, "["+strings.Join(quoted, ", ")+"]")
}

// Verify probes python. The returned report always lists every capability;
// when the probe itself fails every entry reads false and the error is returned alongside.
func (v *Verifier) Verify(
	ctx context.Context,
	python string,
	env []string,
) (v1alpha1.VerificationReport, error) {
	res, err := v.runner.Run(ctx, runner.Command{
		Name:  python,
		Args:  []string{"-c", v.ProbeScript()},
		Env:   env,
		Quiet: true,
	})
	if err != nil {
		return v.report(nil), fmt.Errorf("run capability probe: %w", err)
	}

	present, err := parseProbeOutput(res.Stdout)
	if err != nil {
		return v.report(nil), err
	}

	return v.report(present), nil
}

func (v *Verifier) report(present map[string]bool) v1alpha1.VerificationReport {
	report := v1alpha1.VerificationReport{
		Capabilities: make([]v1alpha1.CapabilityStatus, 0, len(v.capabilities)),
	}

	for _, name := range v.capabilities {
		report.Capabilities = append(report.Capabilities, v1alpha1.CapabilityStatus{
			Name:    name,
			Present: present[name],
		})
	}

	return report
}

// parseProbeOutput reads the last JSON object line; imported packages may print to stdout first.
func parseProbeOutput(stdout string) (map[string]bool, error) {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")

	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "{") {
			continue
		}

		present := map[string]bool{}

		err := json.Unmarshal([]byte(line), &present)
		if err != nil {
			return nil, fmt.Errorf("decode probe output: %w", err)
		}

		return present, nil
	}

	return nil, ErrNoProbeOutput
}

// WriteText prints one line per capability.
func WriteText(writer io.Writer, report v1alpha1.VerificationReport) {
	for _, capability := range report.Capabilities {
		if capability.Present {
			notify.Successf(writer, "%s", capability.Name)
		} else {
			notify.Warningf(writer, "%s (not importable)", capability.Name)
		}
	}

	missing := report.Missing()
	if len(missing) == 0 {
		notify.Infof(writer, "all %d capabilities available", len(report.Capabilities))

		return
	}

	notify.Infof(writer, "%d of %d capabilities available",
		len(report.Capabilities)-len(missing), len(report.Capabilities))
}

// MarshalYAML renders the report as YAML.
func MarshalYAML(report v1alpha1.VerificationReport) ([]byte, error) {
	out, err := marshaller.NewYAMLMarshaller[v1alpha1.VerificationReport]().Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("marshal verification report: %w", err)
	}

	return []byte(out), nil
}
