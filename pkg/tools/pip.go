package tools

import "context"

// Pip wraps the pip executable inside the conda environment.
type Pip struct {
	Bin string
	Env []string
}

func NewPip(bin string) *Pip {
	return &Pip{Bin: bin}
}

// InstallRequirements installs a requirements manifest, run from dir so that
// relative references inside the manifest resolve.
func (p *Pip) InstallRequirements(ctx context.Context, dir, manifest string) error {
	if err := Require(p.Bin); err != nil {
		return err
	}
	return run(ctx, Invocation{
		Name: p.Bin,
		Args: []string{"install", "-r", manifest},
		Dir:  dir,
		Env:  p.Env,
	})
}

// InstallLocal builds and installs the package in dir. globalOptions are
// passed through to setup.py, which is how Apex's C++/CUDA extensions get
// enabled.
func (p *Pip) InstallLocal(ctx context.Context, dir string, globalOptions ...string) error {
	if err := Require(p.Bin); err != nil {
		return err
	}
	return run(ctx, Invocation{
		Name: p.Bin,
		Args: installLocalArgs(globalOptions),
		Dir:  dir,
		Env:  p.Env,
	})
}

func installLocalArgs(globalOptions []string) []string {
	args := []string{"install", "-v", "--no-cache-dir"}
	for _, opt := range globalOptions {
		args = append(args, "--global-option="+opt)
	}
	return append(args, "./")
}
