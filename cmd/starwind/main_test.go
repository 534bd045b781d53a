package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starwind-ui/starwind/internal/cli"
	"github.com/starwind-ui/starwind/pkg/version"
)

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmdWithArgs(version.GetVersion(), nil)
		require.NotNil(t, root)
		assert.Equal(t, "starwind", root.Use)
	})
}

func TestRunVersion(t *testing.T) {
	t.Setenv("STARWIND_HOME", t.TempDir())

	root := cli.NewRootCmdWithArgs(version.GetVersion(), []string{"--version"})
	var out bytes.Buffer
	root.SetOut(&out)
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), version.GetVersion())

	require.NoError(t, run(context.Background(), []string{"--help"}))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error returns 0", nil, 0},
		{"generic error", errors.New("boom"), 1},
		{"wrapped generic error", fmt.Errorf("outer: %w", errors.New("inner")), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
