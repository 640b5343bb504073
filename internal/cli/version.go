package cli

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Build information, overridable at link time:
//
//	go build -ldflags "-X github.com/roach88/fedcore/internal/cli.Version=0.2.0"
var (
	Version   = "0.1.0-dev"
	GitCommit = ""
)

var versionColor = color.New(color.FgCyan, color.Bold)

// VersionInfo is the version command payload.
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	GoVersion string `json:"go_version"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "Print version information",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := VersionInfo{Version: Version, GitCommit: GitCommit, GoVersion: runtime.Version()}

			formatter := rootOpts.formatter(cmd)
			if formatter.IsJSON() {
				return formatter.Success(info)
			}

			line := "fedcore " + versionColor.Sprint(info.Version)
			if info.GitCommit != "" {
				line += " (" + info.GitCommit + ")"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", line, info.GoVersion)
			return nil
		},
	}
}
