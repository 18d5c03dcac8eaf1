package report

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/polkiloo/bazaar/internal/domain/model"
)

// PayoutSheet is the name of the worksheet holding payout rows.
const PayoutSheet = "Payouts"

const timeLayout = "2006-01-02 15:04"

var payoutHeaders = []string{"Vendor ID", "Period", "Amount", "Status", "Method", "Scheduled", "Paid At", "Note", "Bank Details"}

// WritePayouts renders payouts as an xlsx workbook with a trailing total row.
// Instants are rendered in loc.
func WritePayouts(w io.Writer, payouts []model.Payout, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(PayoutSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}
	index, err := f.GetSheetIndex(PayoutSheet)
	if err != nil {
		return fmt.Errorf("locate sheet: %w", err)
	}
	f.SetActiveSheet(index)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}

	for i, header := range payoutHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(PayoutSheet, cell, header); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(PayoutSheet, 1, 1, bold); err != nil {
		return err
	}

	total := decimal.Zero
	row := 2
	for _, p := range payouts {
		paidAt := ""
		if p.PaidAt != nil {
			paidAt = p.PaidAt.In(loc).Format(timeLayout)
		}
		values := []any{
			p.VendorID,
			p.Period,
			p.Amount.InexactFloat64(),
			string(p.Status),
			p.Method,
			p.ScheduledAt.In(loc).Format(timeLayout),
			paidAt,
			p.Note,
			p.BankDetails,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(PayoutSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		total = total.Add(p.Amount)
		row++
	}

	if err := f.SetCellValue(PayoutSheet, fmt.Sprintf("A%d", row), "Total"); err != nil {
		return err
	}
	if err := f.SetCellValue(PayoutSheet, fmt.Sprintf("C%d", row), total.InexactFloat64()); err != nil {
		return err
	}
	if err := f.SetRowStyle(PayoutSheet, row, row, bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(PayoutSheet, "C2", fmt.Sprintf("C%d", row), money); err != nil {
		return err
	}
	if err := f.SetColWidth(PayoutSheet, "F", "G", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(PayoutSheet, "H", "I", 32); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
