package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/fedcore/internal/types"
)

// TypeOptions holds flags for the type command.
type TypeOptions struct {
	*RootOptions
	AssignableFrom string
}

// TypeInfo describes a parsed type literal.
type TypeInfo struct {
	Canonical      string `json:"canonical"`
	Kind           string `json:"kind"`
	AssignableFrom string `json:"assignable_from,omitempty"`
	Assignable     *bool  `json:"assignable,omitempty"`
}

// NewTypeCommand creates the type command.
func NewTypeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TypeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "type <literal>",
		Short: "Parse a type literal",
		Long: `Parse a type literal and print its canonical form and kind.

With --assignable-from, also report whether a value of the second type
can be used where the first is expected. Exits 1 when it cannot.

Examples:
  fedcore type "{<a=int32,b=bool>}@CLIENTS"
  fedcore type "<int32,bool>" --assignable-from "<a=int32,b=bool>"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runType(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.AssignableFrom, "assignable-from", "", "check assignability from this type")

	return cmd
}

func runType(opts *TypeOptions, literal string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	target, err := types.Parse(literal)
	if err != nil {
		_ = formatter.Error(ErrCodeParse, err.Error(), map[string]string{"literal": literal})
		return WrapExitError(ExitCommandError, "invalid type literal", err)
	}

	info := TypeInfo{Canonical: target.String(), Kind: target.Kind().String()}

	if opts.AssignableFrom != "" {
		source, err := types.Parse(opts.AssignableFrom)
		if err != nil {
			_ = formatter.Error(ErrCodeParse, err.Error(), map[string]string{"literal": opts.AssignableFrom})
			return WrapExitError(ExitCommandError, "invalid type literal", err)
		}
		ok := types.IsAssignableFrom(target, source)
		info.AssignableFrom = source.String()
		info.Assignable = &ok
	}

	if formatter.IsJSON() {
		if err := formatter.Success(info); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "canonical: %s\n", info.Canonical)
		fmt.Fprintf(w, "kind:      %s\n", info.Kind)
		if info.Assignable != nil {
			fmt.Fprintf(w, "%s assignable from %s\n", marker(*info.Assignable), info.AssignableFrom)
		}
	}

	if info.Assignable != nil && !*info.Assignable {
		return NewExitError(ExitFailure, fmt.Sprintf("%s is not assignable from %s", info.Canonical, info.AssignableFrom))
	}
	return nil
}
