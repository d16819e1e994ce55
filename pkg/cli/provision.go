package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/speechlab/fastenv/pkg/config"
	"github.com/speechlab/fastenv/pkg/layout"
	"github.com/speechlab/fastenv/pkg/provision"
	"github.com/speechlab/fastenv/pkg/util/console"
)

var (
	condaFlag        bool
	userFlag         string
	deviceFlag       int
	skipExistingFlag bool
	onlyFlag         string
	fromFlag         string
)

func newProvisionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Set up the FastPitch environment on this machine",
		Long: `Set up the FastPitch environment on this machine.

Runs the provisioning steps in order: conda environment, GCC toolchain,
PyTorch, Apex, Python requirements, Weights & Biases login, pretrained
checkpoints, an inference smoke test, and the training dataset. Pass
--conda to install Miniconda first on a fresh machine.

Steps are fail-fast and make a single attempt each. A failed run leaves
partial state in the scratch directory for inspection; re-run with --from
to resume, or --skip-existing to skip work that is already done.`,
		RunE: provisionCommand,
		Args: cobra.MaximumNArgs(0),
	}

	cmd.Flags().BoolVarP(&condaFlag, "conda", "c", false, "Download and install Miniconda before anything else")
	cmd.Flags().StringVarP(&userFlag, "user", "u", "", "Target user for scratch paths (default: the invoking user)")
	cmd.Flags().IntVar(&deviceFlag, "device", -1, "CUDA device index to export (default: from profile)")
	cmd.Flags().BoolVar(&skipExistingFlag, "skip-existing", false, "Skip steps whose effects already exist on disk")
	cmd.Flags().StringVar(&onlyFlag, "only", "", "Run a single named step")
	cmd.Flags().StringVar(&fromFlag, "from", "", "Resume from a named step")

	return cmd
}

func provisionCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return err
	}
	if deviceFlag >= 0 {
		cfg.Device = deviceFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	l, err := layout.New(userFlag, "", cfg.ScratchRoot)
	if err != nil {
		return err
	}

	console.Infof("Provisioning %s for %s under %s", l.EnvName(), l.User, l.Scratch())

	p := provision.New(cfg, l, provision.Options{
		WithConda:    condaFlag,
		SkipExisting: skipExistingFlag,
		Only:         onlyFlag,
		From:         fromFlag,
	})
	return p.Run(cmd.Context())
}
