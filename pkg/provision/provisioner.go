// Package provision builds and runs the linear sequence of steps that turns
// a bare scratch directory into a working FastPitch development environment.
package provision

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/speechlab/fastenv/pkg/config"
	"github.com/speechlab/fastenv/pkg/layout"
)

// Options are per-run knobs from the command line.
type Options struct {
	// WithConda enables the Miniconda download/install step.
	WithConda bool

	// SkipExisting skips steps whose effects are already on disk. Off by
	// default: the stock behavior is intentionally non-idempotent.
	SkipExisting bool

	Only string
	From string
}

type Provisioner struct {
	cfg    *config.Config
	layout *layout.Layout
	opts   Options
}

func New(cfg *config.Config, l *layout.Layout, opts Options) *Provisioner {
	return &Provisioner{cfg: cfg, layout: l, opts: opts}
}

// env builds the process environment for steps that run inside the conda
// environment: the env's bin dir first on PATH, the conda toolchain as the
// active compiler, and the CUDA variables exported. This is what "conda
// activate" would have done for an interactive shell.
func (p *Provisioner) env() []string {
	binDir := filepath.Join(p.layout.EnvDir(), "bin")
	env := os.Environ()
	env = setEnv(env, "PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	env = setEnv(env, "CC", p.layout.EnvBin("x86_64-conda_cos6-linux-gnu-cc"))
	env = setEnv(env, "CXX", p.layout.EnvBin("x86_64-conda_cos6-linux-gnu-c++"))
	env = setEnv(env, "CUDA_HOME", p.cfg.CUDAHome)
	env = setEnv(env, "CUDA_VISIBLE_DEVICES", strconv.Itoa(p.cfg.Device))
	return env
}

// setEnv replaces key in env, or appends it. getenv(3) returns the first
// match, so plain append would leave the old value winning.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
