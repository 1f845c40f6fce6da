package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saker-ai/debugwire/internal/protocol"
)

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the command kinds and their wire codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, k := range protocol.Kinds() {
				if _, err := fmt.Fprintf(out, "%s\t%s\n", k.Code(), k); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
