package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newWhoamiCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show this terminal's customer id and the server status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := e.customerID(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(e.stdout, "customer %s\n", id)

			h := e.api.Health(cmd.Context())
			if h.OK {
				fmt.Fprintf(e.stdout, "server %s ok (%s)\n", e.cfg.APIBaseURL, h.Latency.Round(time.Millisecond))
				return nil
			}
			fmt.Fprintf(e.stdout, "server %s unreachable: %s\n", e.cfg.APIBaseURL, h.Error)
			return nil
		},
	}
}
