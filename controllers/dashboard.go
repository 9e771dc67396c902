package controllers

import (
	"net/http"

	"buildtrack-backend/config"
	"buildtrack-backend/models"
	"buildtrack-backend/services"
	"buildtrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DashboardOverview struct {
	ActiveProjects     int64                    `json:"activeProjects"`
	TotalBankBalance   float64                  `json:"totalBankBalance"`
	MonthInflow        float64                  `json:"monthInflow"`
	MonthOutflow       float64                  `json:"monthOutflow"`
	VendorOutstanding  float64                  `json:"vendorOutstanding"`
	ContractorDues     float64                  `json:"contractorDues"`
	PayrollDues        float64                  `json:"payrollDues"`
	Headcount          int64                    `json:"headcount"`
	LowStockItems      int64                    `json:"lowStockItems"`
	RecentTransactions []models.BankTransaction `json:"recentTransactions"`
}

func GetDashboardOverview(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var overview DashboardOverview

	config.DB.Model(&models.Project{}).
		Where("company_id = ? AND is_active = true AND deleted_at IS NULL", actor.CompanyID).
		Count(&overview.ActiveProjects)

	config.DB.Model(&models.BankAccount{}).
		Where("company_id = ? AND deleted_at IS NULL", actor.CompanyID).
		Select("COALESCE(SUM(current_balance), 0)").Scan(&overview.TotalBankBalance)

	monthStart := utils.CurrentMonth() + "-01"
	config.DB.Model(&models.BankTransaction{}).
		Where("company_id = ? AND type = ? AND date >= ? AND deleted_at IS NULL",
			actor.CompanyID, models.TransactionInflow, monthStart).
		Select("COALESCE(SUM(amount), 0)").Scan(&overview.MonthInflow)
	config.DB.Model(&models.BankTransaction{}).
		Where("company_id = ? AND type = ? AND date >= ? AND deleted_at IS NULL",
			actor.CompanyID, models.TransactionOutflow, monthStart).
		Select("COALESCE(SUM(amount), 0)").Scan(&overview.MonthOutflow)

	overview.VendorOutstanding = vendorOutstanding(actor.CompanyID)
	overview.ContractorDues = contractorOutstanding(actor.CompanyID)
	overview.PayrollDues = payrollDues(actor)

	config.DB.Model(&models.Employee{}).
		Where("company_id = ? AND is_active = true AND deleted_at IS NULL", actor.CompanyID).
		Count(&overview.Headcount)

	config.DB.Model(&models.StockItem{}).
		Where("company_id = ? AND quantity <= 0 AND is_active = true AND deleted_at IS NULL", actor.CompanyID).
		Count(&overview.LowStockItems)

	if err := config.DB.Preload("Project").
		Where("company_id = ?", actor.CompanyID).
		Order("date DESC, created_at DESC").
		Limit(10).
		Find(&overview.RecentTransactions).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch recent transactions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"overview": overview})
}

func payrollDues(actor services.Actor) float64 {
	snapshots, err := services.MonthlyPayroll(config.DB, actor, utils.CurrentMonth())
	if err != nil {
		return 0
	}
	amounts := make([]float64, 0, len(snapshots))
	for _, s := range snapshots {
		if s.Remaining > 0 {
			amounts = append(amounts, s.Remaining)
		}
	}
	return utils.SumRound(amounts...)
}

func vendorOutstanding(companyID uuid.UUID) float64 {
	var billed, entryPaid, standalonePaid float64
	config.DB.Model(&models.PurchaseEntry{}).
		Where("company_id = ?", companyID).
		Select("COALESCE(SUM(total_price), 0)").Scan(&billed)
	config.DB.Model(&models.PurchaseEntry{}).
		Where("company_id = ?", companyID).
		Select("COALESCE(SUM(paid_amount), 0)").Scan(&entryPaid)
	config.DB.Model(&models.VendorPayment{}).
		Where("company_id = ?", companyID).
		Select("COALESCE(SUM(amount), 0)").Scan(&standalonePaid)

	due := utils.SumRound(billed, -entryPaid, -standalonePaid)
	if due < 0 {
		return 0
	}
	return due
}

func contractorOutstanding(companyID uuid.UUID) float64 {
	var billed, entryPaid, standalonePaid float64
	config.DB.Model(&models.ContractorEntry{}).
		Where("company_id = ?", companyID).
		Select("COALESCE(SUM(amount), 0)").Scan(&billed)
	config.DB.Model(&models.ContractorEntry{}).
		Where("company_id = ?", companyID).
		Select("COALESCE(SUM(paid_amount), 0)").Scan(&entryPaid)
	config.DB.Model(&models.ContractorPayment{}).
		Where("company_id = ?", companyID).
		Select("COALESCE(SUM(amount), 0)").Scan(&standalonePaid)

	due := utils.SumRound(billed, -entryPaid, -standalonePaid)
	if due < 0 {
		return 0
	}
	return due
}
