package tools

import "context"

// RunScript executes a project helper script through bash, from dir. The
// FastPitch helpers assume they are run from the project root.
func RunScript(ctx context.Context, dir, script string, env []string) error {
	if err := Require("bash"); err != nil {
		return err
	}
	return run(ctx, Invocation{
		Name: "bash",
		Args: []string{script},
		Dir:  dir,
		Env:  env,
	})
}

// RunInstaller executes a downloaded installer interactively, with the
// operator's terminal attached for its prompts.
func RunInstaller(ctx context.Context, dir, installer string, env []string) error {
	if err := Require("bash"); err != nil {
		return err
	}
	return run(ctx, Invocation{
		Name:        "bash",
		Args:        []string{installer},
		Dir:         dir,
		Env:         env,
		Interactive: true,
	})
}
