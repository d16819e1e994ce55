package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/speechlab/fastenv/pkg/util/console"
)

func newTestCommand(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	cmd, err := NewRootCommand()
	require.NoError(t, err)

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	return out, cmd.Execute()
}

func TestUnknownFlagFails(t *testing.T) {
	_, err := newTestCommand(t, "provision", "--bogus")
	require.Error(t, err)
	require.Contains(t, err.Error(), "bogus")
}

func TestUnknownCommandFails(t *testing.T) {
	_, err := newTestCommand(t, "frobnicate")
	require.Error(t, err)
}

func TestProvisionRejectsPositionalArgs(t *testing.T) {
	_, err := newTestCommand(t, "provision", "gpu07")
	require.Error(t, err)
}

func TestStepsListsPlan(t *testing.T) {
	t.Setenv("FASTENV_STATE_DIR", t.TempDir())

	_, err := newTestCommand(t, "steps")
	require.NoError(t, err)
}

func TestLogLevelEnvVar(t *testing.T) {
	initial := console.ConsoleInstance.Level
	t.Cleanup(func() { console.SetLevel(initial) })

	t.Setenv("FASTENV_STATE_DIR", t.TempDir())
	t.Setenv(LogLevelEnvVarName, "warn")

	_, err := newTestCommand(t, "steps")
	require.NoError(t, err)
	require.Equal(t, console.WarnLevel, console.ConsoleInstance.Level)
}

func TestInvalidLogLevelEnvVarIsIgnored(t *testing.T) {
	initial := console.ConsoleInstance.Level
	t.Cleanup(func() { console.SetLevel(initial) })

	t.Setenv("FASTENV_STATE_DIR", t.TempDir())
	t.Setenv(LogLevelEnvVarName, "loud")

	_, err := newTestCommand(t, "steps")
	require.NoError(t, err)
	require.Equal(t, initial, console.ConsoleInstance.Level)
}

func TestProvisionFlagDefaults(t *testing.T) {
	cmd, err := NewRootCommand()
	require.NoError(t, err)

	provisionCmd, _, err := cmd.Find([]string{"provision"})
	require.NoError(t, err)

	conda, err := provisionCmd.Flags().GetBool("conda")
	require.NoError(t, err)
	require.False(t, conda, "miniconda install must be opt-in")

	user, err := provisionCmd.Flags().GetString("user")
	require.NoError(t, err)
	require.Empty(t, user, "user must default to the invoking user")

	skip, err := provisionCmd.Flags().GetBool("skip-existing")
	require.NoError(t, err)
	require.False(t, skip, "runs are non-idempotent unless asked otherwise")
}
