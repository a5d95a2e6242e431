package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/scibiz/eventapp/apiclient"
	"github.com/scibiz/eventapp/session"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with your registration email and emailed passcode",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		displayAppName(a.cfg.GetAppName())
		a.manager.Hydrate(cmd.Context())

		reader := bufio.NewReader(cmd.InOrStdin())
		email := loginEmail
		if email == "" {
			fmt.Fprint(cmd.OutOrStdout(), "Event registration email: ")
			line, readErr := reader.ReadString('\n')
			if readErr != nil {
				return errors.Wrap(readErr, "[login] read email")
			}
			email = strings.TrimSpace(line)
		}

		fmt.Fprint(cmd.OutOrStdout(), "Passcode: ")
		line, readErr := reader.ReadString('\n')
		if readErr != nil {
			return errors.Wrap(readErr, "[login] read passcode")
		}
		passcode := strings.TrimSpace(line)

		granted, err := a.manager.Login(cmd.Context(), email, passcode)
		if err != nil {
			return errors.Errorf("login failed: %s", loginFailureMessage(err))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Login successful. Welcome, %s.\n", granted.Identity.Email)
		return nil
	},
}

// loginFailureMessage surfaces whatever message the pipeline or validator
// produced, with the app's fixed fallback for anything else.
func loginFailureMessage(err error) string {
	var validationErr *session.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return "Invalid email or passcode"
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "event registration email")
	rootCmd.AddCommand(loginCmd)
}
