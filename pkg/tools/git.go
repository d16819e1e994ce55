package tools

import "context"

// Git wraps the system git.
type Git struct {
	Env []string
}

func NewGit() *Git {
	return &Git{}
}

// Clone clones url into dest. Cloning over an existing checkout is a git
// error, preserved deliberately: a half-provisioned tree should be inspected,
// not silently reused.
func (g *Git) Clone(ctx context.Context, url, dest string) error {
	if err := Require("git"); err != nil {
		return err
	}
	return run(ctx, Invocation{
		Name: "git",
		Args: []string{"clone", url, dest},
		Env:  g.Env,
	})
}
