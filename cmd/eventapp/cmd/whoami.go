package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scibiz/eventapp/internal/utils"
	"github.com/scibiz/eventapp/session"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently logged-in identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		snap := a.manager.Hydrate(cmd.Context())
		if snap.State != session.StateAuthenticated {
			fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), utils.Value(snap.Session).Identity.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
