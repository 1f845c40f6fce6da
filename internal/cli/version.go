package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "debugwire %s (commit %s, built %s)\nprotocol %s\n",
				Version, Commit, BuildTime, a.cfg.Protocol.VersionString)
			return err
		},
	}
}
