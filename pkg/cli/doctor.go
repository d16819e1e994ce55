package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/speechlab/fastenv/pkg/config"
	"github.com/speechlab/fastenv/pkg/doctor"
	"github.com/speechlab/fastenv/pkg/layout"
	"github.com/speechlab/fastenv/pkg/util/console"
)

func newDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check this machine before provisioning",
		RunE:  doctorCommand,
		Args:  cobra.MaximumNArgs(0),
	}
	cmd.Flags().StringVarP(&userFlag, "user", "u", "", "Target user for scratch paths (default: the invoking user)")
	return cmd
}

func doctorCommand(cmd *cobra.Command, args []string) error {
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

	failed := 0
	for _, result := range doctor.Run(l, cfg.CUDAHome) {
		if result.OK() {
			console.Infof("ok: %s", result.Name)
		} else {
			console.Warnf("%s: %s", result.Name, result.Err)
			failed++
		}
	}
	if failed > 0 {
		console.Warnf("%d check(s) failed. Provisioning may still work, but expect trouble.", failed)
	}
	return nil
}
