package provision

import (
	"context"
	"fmt"
	"time"

	"github.com/speechlab/fastenv/pkg/global"
	"github.com/speechlab/fastenv/pkg/state"
	"github.com/speechlab/fastenv/pkg/util/console"
)

// Run executes the plan in order, fail-fast. The first failing step aborts
// the run with the step's name in the error; whatever the step left on disk
// stays there for the operator to inspect.
//
// When the operator gave no --only or --from, a recorded resume point from
// an earlier run is applied, so a rerun after a failure picks up where it
// left off rather than redoing completed steps.
func (p *Provisioner) Run(ctx context.Context) error {
	full := p.Plan()

	from := p.opts.From
	if p.opts.Only == "" && from == "" {
		if resume, last := p.resumePoint(full); resume != "" {
			console.Warnf("Resuming from step %s (last completed: %s). Pass --from %s to start over.", resume, last, full[0].Name)
			from = resume
		}
	}

	plan, err := full.Select(p.opts.Only, from)
	if err != nil {
		return err
	}

	for i, step := range plan {
		console.Infof("=== [%d/%d] %s: %s", i+1, len(plan), step.Name, step.Desc)

		if p.opts.SkipExisting && step.Skip != nil {
			if skip, reason := step.Skip(); skip {
				console.Infof("Skipping %s: %s", step.Name, reason)
				continue
			}
		}

		start := time.Now()
		if err := step.Run(ctx); err != nil {
			return fmt.Errorf("step %s: %w", step.Name, err)
		}
		console.Debugf("step %s finished in %s", step.Name, time.Since(start).Round(time.Second))

		if err := state.Save(&state.State{
			LastStep:    step.Name,
			CompletedAt: time.Now(),
			Version:     global.Version,
		}); err != nil {
			// State is a convenience, not part of the contract.
			console.Debugf("failed to record run state: %s", err)
		}
	}
	return nil
}

// resumePoint returns the step after the last recorded completed one, or ""
// when there is nothing to resume: no state, an unknown step (the plan shape
// changes with --conda), or a run that already finished the final step.
func (p *Provisioner) resumePoint(plan Plan) (next, last string) {
	s, err := state.Load()
	if err != nil || s.LastStep == "" {
		return "", ""
	}
	i := plan.index(s.LastStep)
	if i < 0 || i+1 >= len(plan) {
		return "", ""
	}
	return plan[i+1].Name, s.LastStep
}
