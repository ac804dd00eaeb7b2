package cli

import (
	"context"

	"hirelink/internal/screens"

	"github.com/spf13/cobra"
)

func newHomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show the home screen and where you can go from it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScreen(cmd, "home", func(ctx context.Context, app *screens.App) (*screens.HomeView, error) {
				return app.Home(ctx)
			})
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "whoami",
		Aliases: []string{"dashboard"},
		Short:   "Show the stored session",
		Long: `Open the dashboard and show the stored profile and credential. When the
credential happens to be a JWT its expiry claim is shown too; it is never
used to decide access.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScreen(cmd, "dashboard", func(ctx context.Context, app *screens.App) (*screens.DashboardView, error) {
				return app.Dashboard(ctx)
			})
		},
	}
}
