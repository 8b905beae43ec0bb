package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

type conditionsOptions struct {
	raw   string
	where []string
	anyOf bool
}

func newConditionsCmd() *cobra.Command {
	opts := &conditionsOptions{}
	cmd := &cobra.Command{
		Use:   "conditions",
		Short: "Render a conditions expression without sending a query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConditionsWithOptions(cmd, opts)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&opts.raw, "raw", "", "raw expression ANDed with the --where terms")
	fs.StringArrayVar(&opts.where, "where", nil, "condition term field::value (repeatable)")
	fs.BoolVar(&opts.anyOf, "any", false, "join --where terms with OR instead of AND")
	return cmd
}

func runConditionsWithOptions(cmd *cobra.Command, opts *conditionsOptions) error {
	where, err := buildWhere(opts.where, opts.anyOf)
	if err != nil {
		return err
	}
	expr := combineConditions(opts.raw, where)
	if expr.Empty() {
		return errors.New("nothing to render: pass --where or --raw")
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), expr.String())
	return nil
}
