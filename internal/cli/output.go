package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/kislikjeka/finboard/internal/platform/duedate"
	"github.com/kislikjeka/finboard/internal/platform/loan"
	"github.com/kislikjeka/finboard/internal/platform/pending"
	"github.com/kislikjeka/finboard/pkg/money"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func dueLabel(info duedate.Info) string {
	if info.Label == "" {
		return "-"
	}
	if info.Overdue || info.Urgent {
		return info.Label + " !"
	}
	return info.Label
}

func printPending(w io.Writer, views []pending.View) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tAMOUNT\tPRIORITY\tSTATUS\tDUE")
	for _, v := range views {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, v.Name, money.Format(v.Amount.Decimal), v.Priority, v.Status, dueLabel(v.Due))
	}
	s := pending.Summarize(views)
	fmt.Fprintf(tw, "\n%d open, %d overdue, %d due soon, %s outstanding\n",
		s.Open, s.Overdue, s.Urgent, money.Format(s.TotalOpen.Decimal))
	return tw.Flush()
}

func printLoans(w io.Writer, views []loan.View) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDEBTOR\tREMAINING\tREPAID\tSTATUS\tDUE")
	for _, v := range views {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d%%\t%s\t%s\n",
			v.ID, v.DebtorName, money.Format(v.RemainingAmount.Decimal), v.Percent, v.Status, dueLabel(v.Due))
	}
	return tw.Flush()
}
