package layout

import (
	"os"
	"os/user"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPathsUseTargetUser(t *testing.T) {
	l, err := New("alice", "gpu01", "")
	require.NoError(t, err)

	for _, p := range []string{
		l.Scratch(),
		l.MinicondaRoot(),
		l.CondaBin(),
		l.EnvDir(),
		l.ProjectDir(),
		l.ApexDir(),
		l.OutputDir(),
		l.PretrainedDir(),
	} {
		require.True(t, strings.HasPrefix(p, "/disk/scratch1/alice"), "path %s is not scoped to alice", p)
	}
}

func TestDefaultUserIsInvokingUser(t *testing.T) {
	u, err := user.Current()
	require.NoError(t, err)

	l, err := New("", "gpu01", "")
	require.NoError(t, err)
	require.Equal(t, u.Username, l.User)
}

func TestEnvNameDerivedFromHost(t *testing.T) {
	l, err := New("bob", "gpu07", "")
	require.NoError(t, err)
	require.Equal(t, "fastpitch_gpu07", l.EnvName())
	require.Equal(t, "/disk/scratch1/bob", l.Scratch())
	require.Equal(t, "/disk/scratch1/bob/miniconda3/envs/fastpitch_gpu07", l.EnvDir())
}

func TestShortHostnameTruncatesAtDot(t *testing.T) {
	h, err := ShortHostname()
	require.NoError(t, err)
	require.NotContains(t, h, ".")

	full, err := os.Hostname()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(full, h))
}

func TestScratchRootOverride(t *testing.T) {
	l, err := New("carol", "gpu02", "/mnt/fast")
	require.NoError(t, err)
	require.Equal(t, "/mnt/fast/carol", l.Scratch())
}

func TestProjectLayout(t *testing.T) {
	l, err := New("bob", "gpu07", "")
	require.NoError(t, err)
	require.Equal(t, "/disk/scratch1/bob/FastPitches/PyTorch/SpeechSynthesis/FastPitch", l.ProjectDir())
	require.Equal(t, l.ProjectDir()+"/apex", l.ApexDir())
	require.Equal(t, l.ProjectDir()+"/output", l.OutputDir())
	require.Equal(t, l.MinicondaRoot()+"/bin/conda", l.CondaBin())
	require.Equal(t, l.EnvDir()+"/bin/pip", l.EnvBin("pip"))
}
