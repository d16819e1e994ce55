package provision

import (
	"context"
	"fmt"
	"strings"

	"github.com/speechlab/fastenv/pkg/errors"
)

// Step is one phase of the provisioning sequence.
type Step struct {
	Name string
	Desc string

	// Skip reports whether the step's effect is already present. Only
	// consulted when the operator opts in with --skip-existing; the default
	// contract is the original one: re-running over existing state is the
	// underlying tool's error to raise.
	Skip func() (bool, string)

	Run func(ctx context.Context) error
}

// Plan is an ordered list of steps. Order is the contract: every step may
// assume all earlier steps have completed.
type Plan []Step

func (p Plan) Names() []string {
	names := make([]string, len(p))
	for i, s := range p {
		names[i] = s.Name
	}
	return names
}

func (p Plan) index(name string) int {
	for i, s := range p {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// Select narrows the plan to a single step (only) or a suffix (from). Both
// empty returns the plan unchanged.
func (p Plan) Select(only, from string) (Plan, error) {
	if only != "" && from != "" {
		return nil, fmt.Errorf("--only and --from are mutually exclusive")
	}
	if only != "" {
		i := p.index(only)
		if i < 0 {
			return nil, errors.UnknownStep(fmt.Sprintf("unknown step %q, valid steps: %s", only, strings.Join(p.Names(), ", ")))
		}
		return p[i : i+1], nil
	}
	if from != "" {
		i := p.index(from)
		if i < 0 {
			return nil, errors.UnknownStep(fmt.Sprintf("unknown step %q, valid steps: %s", from, strings.Join(p.Names(), ", ")))
		}
		return p[i:], nil
	}
	return p, nil
}
