package provision

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/speechlab/fastenv/pkg/config"
	"github.com/speechlab/fastenv/pkg/errors"
	"github.com/speechlab/fastenv/pkg/layout"
	"github.com/speechlab/fastenv/pkg/state"
)

func testProvisioner(t *testing.T, opts Options) *Provisioner {
	t.Helper()
	l, err := layout.New("bob", "gpu07", "")
	require.NoError(t, err)
	return New(config.Default(), l, opts)
}

// scratchProvisioner roots the layout in a temp dir so steps see a real but
// empty filesystem, and isolates run state from the invoking user's config.
func scratchProvisioner(t *testing.T, opts Options) *Provisioner {
	t.Helper()
	t.Setenv(state.DirEnvVarName, t.TempDir())
	l, err := layout.New("bob", "gpu07", t.TempDir())
	require.NoError(t, err)
	return New(config.Default(), l, opts)
}

func TestPlanWithoutCondaFlag(t *testing.T) {
	p := testProvisioner(t, Options{})
	require.Equal(t, []string{
		"conda-env", "toolchain", "pytorch", "apex", "requirements",
		"wandb-login", "checkpoints", "smoke-test", "dataset",
	}, p.Plan().Names())
}

func TestPlanWithCondaFlag(t *testing.T) {
	p := testProvisioner(t, Options{WithConda: true})
	names := p.Plan().Names()
	require.Equal(t, "miniconda", names[0])
	require.Len(t, names, 10)
}

func TestSelectOnly(t *testing.T) {
	p := testProvisioner(t, Options{})
	plan, err := p.Plan().Select("apex", "")
	require.NoError(t, err)
	require.Equal(t, []string{"apex"}, plan.Names())
}

func TestSelectFrom(t *testing.T) {
	p := testProvisioner(t, Options{})
	plan, err := p.Plan().Select("", "checkpoints")
	require.NoError(t, err)
	require.Equal(t, []string{"checkpoints", "smoke-test", "dataset"}, plan.Names())
}

func TestSelectUnknownStep(t *testing.T) {
	p := testProvisioner(t, Options{})
	_, err := p.Plan().Select("nonesuch", "")
	require.Error(t, err)
	require.True(t, errors.IsUnknownStep(err))

	_, err = p.Plan().Select("", "nonesuch")
	require.Error(t, err)
	require.True(t, errors.IsUnknownStep(err))
}

func TestSelectOnlyAndFromAreExclusive(t *testing.T) {
	p := testProvisioner(t, Options{})
	_, err := p.Plan().Select("apex", "pytorch")
	require.Error(t, err)
}

func TestEnvActivatesEnvironment(t *testing.T) {
	p := testProvisioner(t, Options{})
	env := p.env()

	byKey := map[string]string{}
	for _, kv := range env {
		for _, key := range []string{"PATH=", "CC=", "CXX=", "CUDA_HOME=", "CUDA_VISIBLE_DEVICES="} {
			if len(kv) > len(key) && kv[:len(key)] == key {
				require.NotContains(t, byKey, key, "duplicate %s entry", key)
				byKey[key] = kv[len(key):]
			}
		}
	}

	envDir := "/disk/scratch1/bob/miniconda3/envs/fastpitch_gpu07"
	require.Contains(t, byKey["PATH="], envDir+"/bin")
	require.Equal(t, envDir+"/bin/x86_64-conda_cos6-linux-gnu-cc", byKey["CC="])
	require.Equal(t, envDir+"/bin/x86_64-conda_cos6-linux-gnu-c++", byKey["CXX="])
	require.Equal(t, "/opt/cuda-10.2.89_440_33", byKey["CUDA_HOME="])
	require.Equal(t, "1", byKey["CUDA_VISIBLE_DEVICES="])
}

func TestSetEnvReplacesExisting(t *testing.T) {
	env := []string{"PATH=/usr/bin", "HOME=/home/bob"}
	env = setEnv(env, "PATH", "/opt/bin")
	require.Equal(t, []string{"PATH=/opt/bin", "HOME=/home/bob"}, env)

	env = setEnv(env, "CC", "/opt/cc")
	require.Equal(t, []string{"PATH=/opt/bin", "HOME=/home/bob", "CC=/opt/cc"}, env)
}

func TestInferenceArgs(t *testing.T) {
	p := testProvisioner(t, Options{})
	require.Equal(t, []string{
		"--cuda",
		"--fastpitch", "pretrained_models/fastpitch/nvidia_fastpitch_200518.pt",
		"--waveglow", "pretrained_models/waveglow/nvidia_waveglow256pyt_fp16.pt",
		"--wn-channels", "256",
		"-i", "phrases/devset10.tsv",
		"-o", "output/wavs_devset10",
	}, p.inferenceArgs())
}

func TestRunAbortsWithStepNameOnFailure(t *testing.T) {
	// Nothing is provisioned under the scratch root, so the conda binary is
	// absent and the step's single attempt fails immediately.
	p := scratchProvisioner(t, Options{Only: "conda-env"})

	err := p.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "step conda-env")
	require.True(t, errors.IsToolMissing(err))
}

func TestRunSkipsExistingState(t *testing.T) {
	p := scratchProvisioner(t, Options{Only: "conda-env", SkipExisting: true})
	require.NoError(t, os.MkdirAll(p.layout.EnvDir(), 0o755))

	// The conda binary still doesn't exist, so anything but a skip would
	// fail with a tool-missing error.
	require.NoError(t, p.Run(context.Background()))
}

func TestResumePointAfterPartialRun(t *testing.T) {
	p := scratchProvisioner(t, Options{})
	require.NoError(t, state.Save(&state.State{LastStep: "pytorch", CompletedAt: time.Now()}))

	next, last := p.resumePoint(p.Plan())
	require.Equal(t, "apex", next)
	require.Equal(t, "pytorch", last)
}

func TestResumePointWithoutState(t *testing.T) {
	p := scratchProvisioner(t, Options{})
	next, _ := p.resumePoint(p.Plan())
	require.Empty(t, next)
}

func TestResumePointAfterCompletedRun(t *testing.T) {
	p := scratchProvisioner(t, Options{})
	require.NoError(t, state.Save(&state.State{LastStep: "dataset", CompletedAt: time.Now()}))

	next, _ := p.resumePoint(p.Plan())
	require.Empty(t, next, "a finished run starts over, not resumes")
}

func TestResumePointIgnoresStepMissingFromPlan(t *testing.T) {
	// miniconda is only in the plan when --conda is passed; state recorded
	// from a conda run must not confuse a plain one.
	p := scratchProvisioner(t, Options{})
	require.NoError(t, state.Save(&state.State{LastStep: "miniconda", CompletedAt: time.Now()}))

	next, _ := p.resumePoint(p.Plan())
	require.Empty(t, next)
}

func TestRunAppliesResumePoint(t *testing.T) {
	// Last completed step is smoke-test, so a plain run resumes at the
	// dataset step; with SkipExisting and the dataset already present it
	// has nothing left to do.
	p := scratchProvisioner(t, Options{SkipExisting: true})
	require.NoError(t, state.Save(&state.State{LastStep: "smoke-test", CompletedAt: time.Now()}))
	require.NoError(t, os.MkdirAll(p.layout.ProjectDir()+"/LJSpeech-1.1", 0o755))

	require.NoError(t, p.Run(context.Background()))
}

func TestExistsSkip(t *testing.T) {
	p := testProvisioner(t, Options{})

	skip, _ := p.existsSkip("/definitely/absent/path")()
	require.False(t, skip)

	skip, reason := p.existsSkip(t.TempDir())()
	require.True(t, skip)
	require.NotEmpty(t, reason)
}
