package envvar_test

import (
	"testing"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/utils/envvar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironment_SetKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	env := envvar.NewEnvironment()
	env.Set("PYTHONUTF8", "1")
	env.Set("HF_HOME", "/opt/cache")
	env.Set("PYTHONUTF8", "0")

	assert.Equal(t, []string{"PYTHONUTF8=0", "HF_HOME=/opt/cache"}, env.Pairs())
	assert.Equal(t, []string{"PYTHONUTF8", "HF_HOME"}, env.Keys())
}

func TestEnvironment_GetAndUnset(t *testing.T) {
	t.Parallel()

	env := envvar.NewEnvironment()
	env.Set("UV_CACHE_DIR", "/opt/.uv-cache")

	value, ok := env.Get("UV_CACHE_DIR")
	require.True(t, ok)
	assert.Equal(t, "/opt/.uv-cache", value)

	env.Unset("UV_CACHE_DIR")
	env.Unset("NEVER_SET")

	_, ok = env.Get("UV_CACHE_DIR")
	assert.False(t, ok)
	assert.Empty(t, env.Pairs())
}
