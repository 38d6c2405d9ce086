// Package cli is the cafeteria terminal client.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/andreasstove999/cafeteria-go/internal/clients"
	"github.com/andreasstove999/cafeteria-go/internal/config"
	"github.com/andreasstove999/cafeteria-go/internal/localstore"
	"github.com/andreasstove999/cafeteria-go/internal/session"
)

// env is built once per invocation from flags and config.
type env struct {
	cfg    config.Client
	log    zerolog.Logger
	api    *clients.API
	state  *localstore.Store
	stdin  io.Reader
	stdout io.Writer
}

func (e *env) customerID(ctx context.Context) (string, error) {
	return session.GuestID(ctx, e.state)
}

func (e *env) close() {
	if e.state != nil {
		_ = e.state.Close()
	}
}

// NewRootCommand builds the command tree. The logger is used for pollers
// and background failures only; user output goes to the command's writer.
func NewRootCommand(cfg config.Client, logger zerolog.Logger) *cobra.Command {
	e := &env{cfg: cfg, log: logger}

	root := &cobra.Command{
		Use:           "cafeteria",
		Short:         "Order from and run the cafeteria from a terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c, err := clients.NewClient("cafeteria", e.cfg.APIBaseURL, &http.Client{Timeout: e.cfg.RequestTimeout})
			if err != nil {
				return err
			}
			e.api = clients.NewAPI(c)
			e.state, err = localstore.Open(cmd.Context(), e.cfg.StatePath)
			if err != nil {
				return fmt.Errorf("open local state: %w", err)
			}
			e.stdin = cmd.InOrStdin()
			e.stdout = cmd.OutOrStdout()
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) { e.close() },
	}

	root.PersistentFlags().StringVar(&e.cfg.APIBaseURL, "api", cfg.APIBaseURL, "cafeteria API base URL")
	root.PersistentFlags().StringVar(&e.cfg.StatePath, "state", cfg.StatePath, "local state file")

	root.AddCommand(
		newShopCommand(e),
		newKitchenCommand(e),
		newMenuCommand(e),
		newWhoamiCommand(e),
	)
	return root
}
