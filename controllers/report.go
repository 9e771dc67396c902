// controllers/report.go
package controllers

import (
	"fmt"
	"net/http"

	"buildtrack-backend/config"
	"buildtrack-backend/services"
	"buildtrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// GetFinancialSummary is the company-wide money position in one response.
func GetFinancialSummary(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var bankBalance float64
	config.DB.Raw(`
		SELECT COALESCE(SUM(current_balance), 0) FROM bank_accounts
		WHERE company_id = ? AND deleted_at IS NULL
	`, actor.CompanyID).Scan(&bankBalance)

	var projectFunding float64
	config.DB.Raw(`
		SELECT COALESCE(SUM(balance), 0) FROM projects
		WHERE company_id = ? AND deleted_at IS NULL
	`, actor.CompanyID).Scan(&projectFunding)

	c.JSON(http.StatusOK, gin.H{
		"summary": gin.H{
			"bankBalance":       bankBalance,
			"projectFunding":    projectFunding,
			"vendorOutstanding": vendorOutstanding(actor.CompanyID),
			"contractorDues":    contractorOutstanding(actor.CompanyID),
		},
	})
}

func writeExcel(c *gin.Context, f *excelize.File, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	if err := f.Write(c.Writer); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to write file")
	}
}

// ExportVendorLedger streams one vendor's reconciled ledger as xlsx.
func ExportVendorLedger(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := services.VendorLedger(config.DB, actor, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Date")
	f.SetCellValue(sheet, "B1", "Item")
	f.SetCellValue(sheet, "C1", "Quantity")
	f.SetCellValue(sheet, "D1", "Unit Price")
	f.SetCellValue(sheet, "E1", "Total")
	f.SetCellValue(sheet, "F1", "Allocated Paid")
	f.SetCellValue(sheet, "G1", "Remaining")

	for i, e := range view.Entries {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sheet, "A"+row, e.Date)
		f.SetCellValue(sheet, "B"+row, e.StockItemName)
		f.SetCellValue(sheet, "C"+row, e.Quantity)
		f.SetCellValue(sheet, "D"+row, e.UnitPrice)
		f.SetCellValue(sheet, "E"+row, e.TotalPrice)
		f.SetCellValue(sheet, "F"+row, e.AllocatedPaid)
		f.SetCellValue(sheet, "G"+row, e.AllocatedRemaining)
	}

	totalsRow := fmt.Sprint(len(view.Entries) + 3)
	f.SetCellValue(sheet, "A"+totalsRow, "Totals")
	f.SetCellValue(sheet, "E"+totalsRow, view.TotalBilled)
	f.SetCellValue(sheet, "F"+totalsRow, view.TotalPaid)
	f.SetCellValue(sheet, "G"+totalsRow, view.TotalRemaining)

	writeExcel(c, f, "vendor-ledger-"+view.Vendor.Name+"-"+utils.Today()+".xlsx")
}

// ExportMonthlyPayroll streams the month's payroll snapshots as xlsx.
func ExportMonthlyPayroll(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	month := c.Query("month")
	if month == "" {
		month = utils.CurrentMonth()
	}

	snapshots, err := services.MonthlyPayroll(config.DB, actor, month)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Employee")
	f.SetCellValue(sheet, "B1", "Type")
	f.SetCellValue(sheet, "C1", "Payable")
	f.SetCellValue(sheet, "D1", "Paid")
	f.SetCellValue(sheet, "E1", "Remaining")
	f.SetCellValue(sheet, "F1", "Status")

	for i, s := range snapshots {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sheet, "A"+row, s.Name)
		f.SetCellValue(sheet, "B"+row, s.Type)
		f.SetCellValue(sheet, "C"+row, s.Payable)
		f.SetCellValue(sheet, "D"+row, s.Paid)
		f.SetCellValue(sheet, "E"+row, s.Remaining)
		f.SetCellValue(sheet, "F"+row, s.Status)
	}

	writeExcel(c, f, "payroll-"+month+".xlsx")
}
