package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCode(t *testing.T) {
	err := ToolMissing("conda not found")
	require.Equal(t, CodeToolMissing, Code(err))
	require.True(t, IsToolMissing(err))
	require.False(t, IsUnknownStep(err))

	require.Empty(t, Code(fmt.Errorf("plain error")))
	require.Empty(t, Code(nil))
}

func TestCodeSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("step conda-env: %w", ToolMissing("conda not found"))
	require.True(t, IsToolMissing(err))
	require.Equal(t, CodeToolMissing, Code(err))
}
