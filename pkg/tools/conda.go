package tools

import "context"

// Conda wraps a conda executable invoked by absolute path, so runs don't
// depend on the operator's shell startup files.
type Conda struct {
	Bin string
	Env []string
}

func NewConda(bin string) *Conda {
	return &Conda{Bin: bin}
}

// CreateEnv creates a named environment pinned to a Python version.
// Re-creating an existing environment is a conda error; that matches the
// tool's non-idempotent contract.
func (c *Conda) CreateEnv(ctx context.Context, name, python string) error {
	if err := Require(c.Bin); err != nil {
		return err
	}
	return run(ctx, Invocation{
		Name: c.Bin,
		Args: createEnvArgs(name, python),
		Env:  c.Env,
	})
}

// Install installs packages into a named environment, optionally from a
// specific channel.
func (c *Conda) Install(ctx context.Context, env, channel string, pkgs ...string) error {
	if err := Require(c.Bin); err != nil {
		return err
	}
	return run(ctx, Invocation{
		Name: c.Bin,
		Args: installArgs(env, channel, pkgs),
		Env:  c.Env,
	})
}

func createEnvArgs(name, python string) []string {
	return []string{"create", "-y", "-n", name, "python=" + python}
}

func installArgs(env, channel string, pkgs []string) []string {
	args := []string{"install", "-y", "-n", env}
	args = append(args, pkgs...)
	if channel != "" {
		args = append(args, "-c", channel)
	}
	return args
}
