package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/lpdb-go/pkg/lpdb"
	"github.com/r9s-ai/lpdb-go/pkg/schema"
)

func newResourcesCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resources [resource]",
		Short: "List resources and the parameters each accepts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			reg, err := openSchema(cfg)
			if err != nil {
				return err
			}
			s := reg.Current()
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				r := schema.Resource(args[0]).Normalize()
				if !s.Has(r) {
					return &lpdb.SchemaViolation{Resource: r}
				}
				for _, p := range s.Params(r) {
					_, _ = fmt.Fprintln(out, p)
				}
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, r := range s.Resources() {
				_, _ = fmt.Fprintf(tw, "%s\t%s\n", r, strings.Join(s.Params(r), ","))
			}
			return tw.Flush()
		},
	}
}
