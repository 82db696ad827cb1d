// Package render turns page state into plain text for the terminal.
package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/adiwn/duit/duit-cli/internal/domain"
	"github.com/adiwn/duit/duit-cli/internal/page"
	"github.com/adiwn/duit/duit-cli/internal/util"
)

// Overview prints the overview screen: accounts with the summed balance,
// the month's transactions grouped per day with daily subtotals, the
// monthly totals, and the expense breakdown.
func Overview(w io.Writer, st page.OverviewState) error {
	if st.Profile != nil {
		fmt.Fprintf(w, "Hi, %s\n", st.Profile.Name)
	}
	fmt.Fprintf(w, "Overview %s\n\n", st.Period)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACCOUNT\tBALANCE")
	for _, a := range st.Accounts {
		fmt.Fprintf(tw, "%s\t%s\n", a.Name, a.Balance)
	}
	fmt.Fprintf(tw, "total\t%s\n", domain.TotalBalance(st.Accounts))
	if err := tw.Flush(); err != nil {
		return err
	}

	if st.Summary == nil || len(st.Summary.Groups) == 0 {
		fmt.Fprintln(w, "\nNo transactions this month.")
		return nil
	}

	for _, group := range st.Summary.Groups {
		fmt.Fprintf(w, "\n%s  (in %s / out %s)\n", group.Date, group.Income, group.Expense)
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, tx := range group.Transactions {
			category := "-"
			if tx.SubCategory != nil {
				category = tx.SubCategory.Category.Name
			}
			fmt.Fprintf(tw, "  #%d\t%s\t%s\t%s\t%s\t%s\n",
				tx.ID, tx.Type, category, tx.Account.Name, tx.Amount, tx.Notes)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "\nMonth totals: income %s, expense %s\n",
		st.Summary.Totals.Income, st.Summary.Totals.Expense)

	if len(st.Breakdown) > 0 {
		fmt.Fprintln(w, "\nExpenses by category:")
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, slice := range st.Breakdown {
			fmt.Fprintf(tw, "  %s\t%s\n", slice.Name, slice.Amount)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	for _, bad := range st.Summary.BadDates {
		fmt.Fprintf(w, "\nwarning: transaction %d skipped, bad date %q\n", bad.TransactionID, bad.Value)
	}
	return nil
}

// Budgets prints the budgeting screen: one reconciliation row per expense
// category, flagging rows where a suggestion can be taken over.
func Budgets(w io.Writer, period util.Period, rows []domain.BudgetRow) error {
	fmt.Fprintf(w, "Budgets %s\n\n", period)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tBUDGETED\tSPENT\tREMAINING\tPROGRESS")
	for _, row := range rows {
		extra := ""
		if row.SuggestionOffered() {
			extra = fmt.Sprintf("  (suggested: %s)", row.Suggested)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f%%%s\n",
			row.CategoryName, row.Budgeted, row.Spent, row.Remaining, row.Progress, extra)
	}
	return tw.Flush()
}
