package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mcoot/gamehub/internal/endpoint"
	"github.com/mcoot/gamehub/internal/remote"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe every configured endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			var eps []endpoint.Descriptor
			eps = append(eps, app.Endpoints.List(endpoint.PurposeAuth)...)
			eps = append(eps, app.Endpoints.List(endpoint.PurposeGames)...)

			results := app.Prober.ProbeAll(cmd.Context(), eps)
			output(cmd).Print(results)

			for _, r := range results {
				if r.Reachability == remote.Reachable {
					return nil
				}
			}
			return errors.New("no endpoint is reachable")
		},
	}
}
