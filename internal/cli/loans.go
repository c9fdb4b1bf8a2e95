package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kislikjeka/finboard/internal/platform/loan"
	"github.com/kislikjeka/finboard/pkg/money"
)

func newLoansCmd(appFn func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loans",
		Short: "Money lent to others",
	}
	cmd.AddCommand(newLoansListCmd(appFn), newLoansPayCmd(appFn))
	return cmd
}

func newLoansListCmd(appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List loans",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			ctx, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}

			views, err := a.loans.List(ctx, a.qc)
			if err != nil {
				return explain(err)
			}
			if a.opts.json {
				return printJSON(a.out, views)
			}
			return printLoans(a.out, views)
		},
	}
}

func newLoansPayCmd(appFn func() *app) *cobra.Command {
	var (
		form     loan.PaymentForm
		filePath string
	)

	cmd := &cobra.Command{
		Use:   "pay <loan-id>",
		Short: "Register a repayment received against a loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid loan id %q", args[0])
			}
			ctx, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			if form.Date == "" {
				form.Date = a.now().Format("2006-01-02")
			}
			if form.File, err = readAttachment(filePath); err != nil {
				return err
			}

			tx, err := a.loans.RegisterPayment(ctx, a.qc, id, form)
			if err != nil {
				return explain(err)
			}
			if a.opts.json {
				return printJSON(a.out, tx)
			}
			fmt.Fprintf(a.out, "Registered payment of %s against loan #%d\n", money.Format(tx.Amount.Decimal), id)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.Amount, "amount", "", "amount received")
	f.StringVar(&form.AccountID, "account", "", "account the money went into")
	f.StringVar(&form.CategoryID, "category", "", "category id")
	f.StringVar(&form.SubcategoryID, "subcategory", "", "subcategory id")
	f.StringVar(&form.Date, "date", "", "payment date (YYYY-MM-DD, default today)")
	f.StringVar(&form.Description, "description", "", "free text")
	f.StringVar(&filePath, "file", "", "voucher to attach (JPEG, PNG, WEBP or PDF, max 5 MB)")
	return cmd
}
