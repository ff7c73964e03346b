package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd returns the root cobra command for snaprotate. Running the root
// command performs a full rotation: lock, backup, cascade, prune, unlock.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snaprotate",
		Short: "Rotate backups into daily/monthly/yearly archives with GFS retention",

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd, stderr)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRotation(cmd, stdout)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	addGlobalFlags(cmd)

	// Subcommands
	cmd.AddCommand(newVersionCmd(stdout))
	cmd.AddCommand(newListCmd(stdout))
	cmd.AddCommand(newPruneCmd(stdout))

	return cmd
}

// Execute runs the CLI with the process stdio and returns the exit code:
// 0 on full success, 1 on any fatal condition or backup failure.
func Execute() int {
	root := NewRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "snaprotate:", err)
		return 1
	}
	return 0
}
