// Package export writes a month's aggregated view to an .xlsx workbook so
// the numbers can leave the terminal.
package export

import (
	"fmt"

	"github.com/adiwn/duit/duit-cli/internal/domain"
	"github.com/adiwn/duit/duit-cli/internal/util"
	"github.com/xuri/excelize/v2"
)

const (
	transactionsSheet = "Transactions"
	budgetsSheet      = "Budgets"
)

// MonthlyReport writes one workbook for a period: a Transactions sheet with
// every listed movement and a Budgets sheet with the per-category
// reconciliation. Amounts are written as numbers so spreadsheet formulas
// work on them.
func MonthlyReport(path string, period util.Period, summary *domain.MonthSummary, rows []domain.BudgetRow) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", transactionsSheet)
	if err := writeTransactions(f, summary); err != nil {
		return fmt.Errorf("write transactions sheet: %w", err)
	}

	if _, err := f.NewSheet(budgetsSheet); err != nil {
		return fmt.Errorf("create budgets sheet: %w", err)
	}
	if err := writeBudgets(f, rows); err != nil {
		return fmt.Errorf("write budgets sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report for %s: %w", period, err)
	}
	return nil
}

func writeTransactions(f *excelize.File, summary *domain.MonthSummary) error {
	headings := []interface{}{"Date", "Notes", "Category", "Account", "Type", "Amount"}
	if err := f.SetSheetRow(transactionsSheet, "A1", &headings); err != nil {
		return err
	}

	rowNo := 2
	for _, group := range summary.Groups {
		for _, tx := range group.Transactions {
			category := ""
			if tx.SubCategory != nil {
				category = tx.SubCategory.Category.Name
			}
			amount, _ := tx.Amount.Float64()
			cells := []interface{}{group.Date, tx.Notes, category, tx.Account.Name, string(tx.Type), amount}
			cell, err := excelize.CoordinatesToCellName(1, rowNo)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(transactionsSheet, cell, &cells); err != nil {
				return err
			}
			rowNo++
		}
	}

	totalIncome, _ := summary.Totals.Income.Float64()
	totalExpense, _ := summary.Totals.Expense.Float64()
	incomeRow := []interface{}{"", "", "", "", "total income", totalIncome}
	expenseRow := []interface{}{"", "", "", "", "total expense", totalExpense}
	cell, err := excelize.CoordinatesToCellName(1, rowNo+1)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(transactionsSheet, cell, &incomeRow); err != nil {
		return err
	}
	cell, err = excelize.CoordinatesToCellName(1, rowNo+2)
	if err != nil {
		return err
	}
	return f.SetSheetRow(transactionsSheet, cell, &expenseRow)
}

func writeBudgets(f *excelize.File, rows []domain.BudgetRow) error {
	headings := []interface{}{"Category", "Budgeted", "Spent", "Remaining", "Progress (%)"}
	if err := f.SetSheetRow(budgetsSheet, "A1", &headings); err != nil {
		return err
	}

	for i, row := range rows {
		budgeted, _ := row.Budgeted.Float64()
		spent, _ := row.Spent.Float64()
		remaining, _ := row.Remaining.Float64()
		cells := []interface{}{row.CategoryName, budgeted, spent, remaining, row.Progress}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(budgetsSheet, cell, &cells); err != nil {
			return err
		}
	}
	return nil
}
