package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newLoginCmd(c *cli) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("CATALOG_PASSWORD")
			}
			if email == "" || password == "" {
				return errors.New("email and password are required")
			}
			user, err := c.app.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			token, err := c.app.Session.Token(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.saveToken(token); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "signed in as %s (%s)\n", user.Name, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (default $CATALOG_PASSWORD)")
	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved token",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := c.fs.Remove(c.tokenFile); err != nil && !os.IsNotExist(err) {
				return errors.Wrap(err, "remove token")
			}
			c.app.Session.SignOut()
			fmt.Fprintln(c.out, "signed out")
			return nil
		},
	}
}
