package tools

import "context"

// Python wraps the interpreter inside the conda environment.
type Python struct {
	Bin string
	Env []string
}

func NewPython(bin string) *Python {
	return &Python{Bin: bin}
}

// Run executes a script with args, from dir.
func (p *Python) Run(ctx context.Context, dir, script string, args ...string) error {
	if err := Require(p.Bin); err != nil {
		return err
	}
	argv := append([]string{script}, args...)
	return run(ctx, Invocation{
		Name: p.Bin,
		Args: argv,
		Dir:  dir,
		Env:  p.Env,
	})
}
