package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roach88/fedcore/internal/intrinsics"
)

// CatalogOptions holds flags for the catalog command.
type CatalogOptions struct {
	*RootOptions
	Operator string
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List intrinsic operators",
		Long: `List every intrinsic in the embedded catalog with its operator name,
placement variant and signature template.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Operator, "operator", "", "only list intrinsics for this operator")

	return cmd
}

func runCatalog(opts *CatalogOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	defs := intrinsics.All()
	if opts.Operator != "" {
		filtered := defs[:0]
		for _, d := range defs {
			if d.Operator == opts.Operator {
				filtered = append(filtered, d)
			}
		}
		defs = filtered
		if len(defs) == 0 {
			msg := fmt.Sprintf("no intrinsic for operator %q", opts.Operator)
			_ = formatter.Error(ErrCodeNotFound, msg, nil)
			return NewExitError(ExitCommandError, msg)
		}
	}

	if formatter.IsJSON() {
		return formatter.Success(defs)
	}

	header := color.New(color.Bold)
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header.Sprint("URI")+"\t"+header.Sprint("OPERATOR")+"\t"+header.Sprint("PLACEMENT")+"\t"+header.Sprint("SIGNATURE"))
	for _, d := range defs {
		p := d.Placement
		if p == "" {
			p = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.URI, d.Operator, p, d.Signature)
	}
	return tw.Flush()
}
