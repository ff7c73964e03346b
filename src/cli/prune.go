package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"snaprotate/src/config"
	"snaprotate/src/lockfile"
	"snaprotate/src/naming"
	"snaprotate/src/retention"
	"snaprotate/src/safety"
)

// newPruneCmd prunes without backing up first. Unlike the pruning phase of a
// rotation run it is not gated on a backup result; the operator asked for it.
func newPruneCmd(stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Prune stale archives per the retention policy, without backing up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath(cmd))
			if err != nil {
				return err
			}

			lock, err := lockfile.Acquire(cfg.LockPath)
			if err != nil {
				return err
			}
			defer lock.Release()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			client := newStoreClient(cfg)
			listing, err := client.List(ctx)
			if err != nil {
				return err
			}

			engine := &retention.Engine{Store: client, Cfg: cfg}
			plan := engine.Plan(listing)

			// Preview
			tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTIER\tTARGET\tACTION")
			for _, c := range plan {
				fmt.Fprintf(tw, "%s\t%s\t%s\tdelete\n", c.Name, c.Tier, naming.DisplayPath(c.Target))
			}
			_ = tw.Flush()

			opts := getSafetyOptions(cmd)
			if opts.DryRun || len(plan) == 0 {
				return nil
			}
			ok, err := safety.Confirm(opts, os.Stdin, stdout, fmt.Sprintf("Delete %d archives?", len(plan)))
			if err != nil || !ok {
				return err
			}
			deleted := engine.Prune(ctx, listing)
			fmt.Fprintf(stdout, "deleted %d archives\n", deleted)
			return nil
		},
	}
	return cmd
}
