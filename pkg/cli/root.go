package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/speechlab/fastenv/pkg/global"
	"github.com/speechlab/fastenv/pkg/util/console"
)

// LogLevelEnvVarName overrides the console level by name, e.g. "debug" or
// "warn". The --verbose flag wins over it.
const LogLevelEnvVarName = "FASTENV_LOG_LEVEL"

func NewRootCommand() (*cobra.Command, error) {
	rootCmd := cobra.Command{
		Use:     "fastenv",
		Short:   "Provision FastPitch development environments",
		Version: fmt.Sprintf("%s (built %s)", global.Version, global.BuildTime),
		// Errors are printed by cmd/fastenv/main.go, so don't double up here
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if name := os.Getenv(LogLevelEnvVarName); name != "" {
				if level, err := console.ParseLevel(name); err != nil {
					console.Warnf("Ignoring invalid %s %q", LogLevelEnvVarName, name)
				} else {
					console.SetLevel(level)
				}
			}
			if global.Verbose {
				console.SetLevel(console.DebugLevel)
			}
			if !console.IsTTY(os.Stderr) {
				console.SetColor(false)
			}
			cmd.SilenceUsage = true
		},
		SilenceErrors: true,
	}
	setPersistentFlags(&rootCmd)

	rootCmd.AddCommand(
		newProvisionCommand(),
		newDoctorCommand(),
		newStepsCommand(),
	)

	return &rootCmd, nil
}

func setPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "Verbose output")
}
