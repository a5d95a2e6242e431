package cmd

import (
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		a.manager.Hydrate(cmd.Context())
		a.manager.Logout(cmd.Context())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
