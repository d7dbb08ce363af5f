package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMCPCommand_Shape(t *testing.T) {
	t.Parallel()

	cmd := NewMCPCommand()

	assert.Equal(t, "mcp", cmd.Use)
	require.NotNil(t, cmd.Flags().Lookup("debug"))
	assert.Equal(t, "false", cmd.Flags().Lookup("debug").DefValue)
}
