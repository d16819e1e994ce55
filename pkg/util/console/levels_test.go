package console

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	require.Equal(t, DebugLevel, level)

	level, err = ParseLevel("WARNING")
	require.NoError(t, err)
	require.Equal(t, WarnLevel, level)

	_, err = ParseLevel("loud")
	require.ErrorIs(t, err, ErrInvalidLevel)
}

func TestLevelString(t *testing.T) {
	require.Equal(t, "info", InfoLevel.String())
	require.Equal(t, "fatal", FatalLevel.String())
}
