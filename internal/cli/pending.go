package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kislikjeka/finboard/internal/platform/pending"
)

func newPendingCmd(appFn func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pending",
		Aliases: []string{"p"},
		Short:   "Bills waiting to be paid",
	}
	cmd.AddCommand(
		newPendingListCmd(appFn),
		newPendingAddCmd(appFn),
		newPendingPayCmd(appFn),
	)
	return cmd
}

func newPendingListCmd(appFn func() *app) *cobra.Command {
	var status, priority string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List pending payments, most urgent first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			ctx, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}

			filter := pending.ParseFilter(url.Values{"status": {status}, "priority": {priority}})
			views, err := a.pend.List(ctx, a.qc, filter)
			if err != nil {
				return explain(err)
			}
			if a.opts.json {
				return printJSON(a.out, views)
			}
			return printPending(a.out, views)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "pending, overdue, paid or cancelled")
	cmd.Flags().StringVar(&priority, "priority", "", "high, medium or low")
	return cmd
}

func newPendingAddCmd(appFn func() *app) *cobra.Command {
	var form pending.Form
	var noReminder bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new pending payment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			ctx, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			if noReminder {
				form.ReminderEnabled = "false"
			}

			created, err := a.pend.Create(ctx, a.qc, form)
			if err != nil {
				return explain(err)
			}
			if a.opts.json {
				return printJSON(a.out, created)
			}
			fmt.Fprintf(a.out, "Created pending payment #%d %q\n", created.ID, created.Name)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.Name, "name", "", "what the payment is for")
	f.StringVar(&form.Amount, "amount", "", "amount, up to two decimals")
	f.StringVar(&form.DueDate, "due", "", "due date (YYYY-MM-DD)")
	f.StringVar(&form.Priority, "priority", "", "high, medium (default) or low")
	f.StringVar(&form.CategoryID, "category", "", "category id")
	f.StringVar(&form.SubcategoryID, "subcategory", "", "subcategory id")
	f.StringVar(&form.AccountID, "account", "", "account to pay from")
	f.StringVar(&form.LoanID, "loan", "", "loan this payment settles")
	f.StringVar(&form.DebtID, "debt", "", "debt this payment settles")
	f.StringVar(&form.Notes, "notes", "", "free text")
	f.BoolVar(&noReminder, "no-reminder", false, "disable the reminder")
	return cmd
}

func newPendingPayCmd(appFn func() *app) *cobra.Command {
	var form pending.PayForm

	cmd := &cobra.Command{
		Use:   "pay <id>",
		Short: "Mark a pending payment as paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid pending payment id %q", args[0])
			}
			ctx, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			if form.TransactionDate == "" {
				form.TransactionDate = a.now().Format("2006-01-02")
			}

			paid, err := a.pend.MarkPaid(ctx, a.qc, id, form)
			if err != nil {
				return explain(err)
			}
			if a.opts.json {
				return printJSON(a.out, paid)
			}
			fmt.Fprintf(a.out, "Marked #%d %q as paid\n", paid.ID, paid.Name)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.AccountID, "account", "", "account the money left from")
	f.StringVar(&form.TransactionDate, "date", "", "payment date (YYYY-MM-DD, default today)")
	f.StringVar(&form.Notes, "notes", "", "free text")
	return cmd
}
