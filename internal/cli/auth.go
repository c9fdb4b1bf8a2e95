package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kislikjeka/finboard/internal/platform/session"
)

func newLoginCmd(appFn func() *app) *cobra.Command {
	var form session.LoginForm

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			if form.Password == "" {
				form.Password = os.Getenv("FINBOARD_PASSWORD")
			}
			creds, err := form.Validate()
			if err != nil {
				return explain(err)
			}

			identity, cookies, err := a.api.Login(cmd.Context(), creds.Username, creds.Password)
			if err != nil {
				return explain(err)
			}
			if err := saveSession(a.opts.sessionFile, identity.Username, cookies, a.now()); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Signed in as %s\n", identity.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&form.Username, "username", "u", os.Getenv("FINBOARD_USERNAME"), "username (env FINBOARD_USERNAME)")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "password (env FINBOARD_PASSWORD)")
	return cmd
}

func newLogoutCmd(appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			if ctx, err := a.authed(cmd.Context()); err == nil {
				if err := a.api.Logout(ctx); err != nil {
					a.log.Warn("upstream logout failed", "error", err)
				}
			}
			if err := removeSession(a.opts.sessionFile); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Signed out")
			return nil
		},
	}
}
