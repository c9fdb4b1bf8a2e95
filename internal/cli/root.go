package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the finctl command tree writing to out and errOut
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	_ = godotenv.Load()

	opts := &options{}
	var a *app

	root := &cobra.Command{
		Use:           "finctl",
		Short:         "Manage pending payments and loans from the terminal",
		Long:          `finctl talks to the finance API directly. Sign in once with "finctl login"; the session is kept in a file between invocations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a = newApp(opts, out, errOut)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:3000"
	}
	sessionFile := os.Getenv("FINCTL_SESSION_FILE")
	if sessionFile == "" {
		sessionFile = defaultSessionFile()
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", apiURL, "finance API base URL (env API_BASE_URL)")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "upstream request timeout")
	flags.StringVar(&opts.sessionFile, "session-file", sessionFile, "where the signed-in session is kept (env FINCTL_SESSION_FILE)")
	flags.BoolVar(&opts.json, "json", false, "print JSON instead of tables")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log upstream calls to stderr")

	appFn := func() *app { return a }
	root.AddCommand(
		newLoginCmd(appFn),
		newLogoutCmd(appFn),
		newPendingCmd(appFn),
		newLoansCmd(appFn),
	)
	return root
}

// Execute runs finctl with the process arguments
func Execute(ctx context.Context) error {
	return NewRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
}
