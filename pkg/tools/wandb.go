package tools

import "context"

// Wandb wraps the wandb CLI installed into the conda environment.
type Wandb struct {
	Bin string
	Env []string
}

func NewWandb(bin string) *Wandb {
	return &Wandb{Bin: bin}
}

// Login runs the interactive credential flow. An optional host targets a
// self-hosted instance.
func (w *Wandb) Login(ctx context.Context, host string) error {
	if err := Require(w.Bin); err != nil {
		return err
	}
	return run(ctx, Invocation{
		Name:        w.Bin,
		Args:        loginArgs(host),
		Env:         w.Env,
		Interactive: true,
	})
}

func loginArgs(host string) []string {
	args := []string{"login"}
	if host != "" {
		args = append(args, "--host", host)
	}
	return args
}
