package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"snaprotate/src/config"
	"snaprotate/src/naming"
)

func newListCmd(stdout io.Writer) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List managed archives in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath(cmd))
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			listing, err := newStoreClient(cfg).List(ctx)
			if err != nil {
				return err
			}
			archives := naming.ParseAll(listing, cfg.Hostname)
			sort.Slice(archives, func(i, j int) bool { return archives[i].Name < archives[j].Name })

			switch output {
			case "json":
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(archives)
			case "table", "":
				tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tTIER\tTIMESTAMP\tSUFFIX")
				for _, a := range archives {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Name, a.Tier, a.Timestamp, a.Suffix)
				}
				return tw.Flush()
			default:
				return fmt.Errorf("unsupported --output: %s", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table|json")
	return cmd
}
