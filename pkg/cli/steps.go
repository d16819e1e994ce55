package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xeonx/timeago"

	"github.com/speechlab/fastenv/pkg/config"
	"github.com/speechlab/fastenv/pkg/layout"
	"github.com/speechlab/fastenv/pkg/provision"
	"github.com/speechlab/fastenv/pkg/state"
	"github.com/speechlab/fastenv/pkg/util/console"
)

func newStepsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "steps",
		Short: "List the provisioning steps in order",
		RunE:  stepsCommand,
		Args:  cobra.MaximumNArgs(0),
	}
	cmd.Flags().BoolVarP(&condaFlag, "conda", "c", false, "Include the Miniconda install step")
	cmd.Flags().StringVarP(&userFlag, "user", "u", "", "Target user for scratch paths (default: the invoking user)")
	return cmd
}

func stepsCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return err
	}
	l, err := layout.New(userFlag, "", cfg.ScratchRoot)
	if err != nil {
		return err
	}

	s, err := state.Load()
	if err != nil {
		return err
	}

	p := provision.New(cfg, l, provision.Options{WithConda: condaFlag})
	for _, step := range p.Plan() {
		line := fmt.Sprintf("%-12s %s", step.Name, step.Desc)
		if s.LastStep == step.Name {
			line += fmt.Sprintf("  (last completed %s)", timeago.English.Format(s.CompletedAt))
		}
		console.Output(line)
	}
	return nil
}
