package provisioner_test

import (
	"io"
	"testing"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/apis/setup/v1alpha1"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/svc/provisioner"
	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/runner/runnertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFactory_Create(t *testing.T) {
	t.Parallel()

	factory := provisioner.DefaultFactory{Runner: runnertest.New(), Disk: fakeDisk{}}
	cfg := v1alpha1.NewInstallConfig(t.TempDir())

	seq, err := factory.Create(cfg, io.Discard, nil)

	require.NoError(t, err)
	assert.Same(t, cfg, seq.Config())
	assert.Empty(t, seq.Results())
}

func TestDefaultFactory_CreateRequiresConfig(t *testing.T) {
	t.Parallel()

	_, err := provisioner.DefaultFactory{}.Create(nil, io.Discard, nil)

	require.ErrorIs(t, err, provisioner.ErrConfigRequired)
}
