package di_test

import (
	"errors"
	"testing"

	"github.com/devantler-tech/hunyuan3d-setup/pkg/di"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errHandler = errors.New("handler error")
	errModule  = errors.New("module error")
)

func TestRuntime_Invoke(t *testing.T) {
	t.Parallel()

	handlerCalled := false

	err := di.New().Invoke(func(di.Injector) error {
		handlerCalled = true

		return nil
	})

	require.NoError(t, err)
	assert.True(t, handlerCalled)
}

func TestRuntime_Invoke_HandlerError(t *testing.T) {
	t.Parallel()

	err := di.New().Invoke(func(di.Injector) error { return errHandler })

	require.ErrorIs(t, err, errHandler)
}

func TestRuntime_Invoke_ModuleErrorSkipsHandler(t *testing.T) {
	t.Parallel()

	rt := di.New(func(di.Injector) error { return errModule })

	err := rt.Invoke(func(di.Injector) error {
		t.Fatal("handler must not run when a module fails")

		return nil
	})

	require.ErrorIs(t, err, errModule)
}

func TestRuntime_Invoke_ModuleOrder(t *testing.T) {
	t.Parallel()

	var order []int

	record := func(n int) di.Module {
		return func(di.Injector) error {
			order = append(order, n)

			return nil
		}
	}

	err := di.New(record(1), nil).Invoke(func(di.Injector) error {
		order = append(order, 4)

		return nil
	}, record(2), nil, record(3))

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, order)
}

func TestRuntime_Invoke_FreshInjectorPerCall(t *testing.T) {
	t.Parallel()

	type counter struct{ n int }

	rt := di.New(func(i di.Injector) error {
		do.Provide(i, func(di.Injector) (*counter, error) { return &counter{}, nil })

		return nil
	})

	for range 2 {
		err := rt.Invoke(func(i di.Injector) error {
			c, err := do.Invoke[*counter](i)
			if err != nil {
				return err
			}

			c.n++
			assert.Equal(t, 1, c.n)

			return nil
		})
		require.NoError(t, err)
	}
}

func TestRunEWithRuntime(t *testing.T) {
	t.Parallel()

	var received *cobra.Command

	runE := di.RunEWithRuntime(di.New(), func(cmd *cobra.Command, _ di.Injector) error {
		received = cmd

		return errHandler
	})

	cmd := &cobra.Command{Use: "test"}

	require.ErrorIs(t, runE(cmd, nil), errHandler)
	assert.Same(t, cmd, received)
}

func TestRuntime_With(t *testing.T) {
	t.Parallel()

	var order []string

	base := di.New(func(di.Injector) error {
		order = append(order, "base")

		return nil
	})
	extended := base.With(func(di.Injector) error {
		order = append(order, "extended")

		return nil
	})

	require.NoError(t, base.Invoke(func(di.Injector) error { return nil }))
	require.NoError(t, extended.Invoke(func(di.Injector) error { return nil }))
	assert.Equal(t, []string{"base", "base", "extended"}, order)
}
