package controllers

import (
	"errors"
	"net/http"

	"buildtrack-backend/config"
	"buildtrack-backend/models"
	"buildtrack-backend/services"
	"buildtrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeInput struct {
	Name          string  `json:"name" binding:"required"`
	Phone         string  `json:"phone"`
	Role          string  `json:"role"`
	Type          string  `json:"type" binding:"required,oneof=fixed daily"`
	MonthlySalary float64 `json:"monthlySalary"`
	DailyRate     float64 `json:"dailyRate"`
	JoinedMonth   string  `json:"joinedMonth" binding:"required,ledgermonth"`
}

type EmployeeUpdateInput struct {
	Name          *string  `json:"name"`
	Phone         *string  `json:"phone"`
	Role          *string  `json:"role"`
	MonthlySalary *float64 `json:"monthlySalary"`
	DailyRate     *float64 `json:"dailyRate"`
	IsActive      *bool    `json:"isActive"`
}

type AttendanceRequest struct {
	EmployeeID uuid.UUID               `json:"employeeId" binding:"required"`
	Month      string                  `json:"month" binding:"required,ledgermonth"`
	Days       models.AttendanceDayMap `json:"days"`
}

type EmployeePaymentRequest struct {
	EmployeeID uuid.UUID `json:"employeeId" binding:"required"`
	Month      string    `json:"month" binding:"required,ledgermonth"`
	Date       string    `json:"date" binding:"required,ledgerdate"`
	Amount     float64   `json:"amount" binding:"required"`
	Type       string    `json:"type" binding:"required,oneof=advance salary wage"`
	Method     string    `json:"method"`
	Notes      string    `json:"notes"`
}

type EmployeePaymentUpdateRequest struct {
	Month  *string  `json:"month"`
	Date   *string  `json:"date"`
	Amount *float64 `json:"amount"`
	Type   *string  `json:"type"`
	Method *string  `json:"method"`
	Notes  *string  `json:"notes"`
}

func CreateEmployee(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var input EmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Type == models.EmployeeFixed && input.MonthlySalary <= 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Fixed employees need a positive monthly salary")
		return
	}
	if input.Type == models.EmployeeDaily && input.DailyRate <= 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Daily employees need a positive daily rate")
		return
	}

	employee := models.Employee{
		CompanyID:     actor.CompanyID,
		Name:          input.Name,
		Phone:         input.Phone,
		Role:          input.Role,
		Type:          input.Type,
		MonthlySalary: utils.Round2(input.MonthlySalary),
		DailyRate:     utils.Round2(input.DailyRate),
		JoinedMonth:   input.JoinedMonth,
	}
	if err := config.DB.Create(&employee).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create employee")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"employee": employee})
}

func ListEmployees(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var employees []models.Employee
	if err := config.DB.Where("company_id = ?", actor.CompanyID).
		Order("name ASC").Find(&employees).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch employees")
		return
	}

	c.JSON(http.StatusOK, gin.H{"employees": employees})
}

func UpdateEmployee(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input EmployeeUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var employee models.Employee
	if err := config.DB.Where("company_id = ? AND id = ?", actor.CompanyID, id).
		First(&employee).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		return
	}

	// Type and joined month are fixed at creation.
	if input.Name != nil {
		employee.Name = *input.Name
	}
	if input.Phone != nil {
		employee.Phone = *input.Phone
	}
	if input.Role != nil {
		employee.Role = *input.Role
	}
	if input.MonthlySalary != nil {
		if employee.Type != models.EmployeeFixed {
			utils.RespondWithError(c, http.StatusBadRequest, "Monthly salary applies only to fixed employees")
			return
		}
		employee.MonthlySalary = utils.Round2(*input.MonthlySalary)
	}
	if input.DailyRate != nil {
		if employee.Type != models.EmployeeDaily {
			utils.RespondWithError(c, http.StatusBadRequest, "Daily rate applies only to daily employees")
			return
		}
		employee.DailyRate = utils.Round2(*input.DailyRate)
	}
	if input.IsActive != nil {
		employee.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&employee).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update employee")
		return
	}

	c.JSON(http.StatusOK, gin.H{"employee": employee})
}

// SaveAttendance creates or replaces a month's attendance sheet.
func SaveAttendance(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var input AttendanceRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	sheet, err := services.SaveAttendance(config.DB, actor, input.EmployeeID, input.Month, input.Days)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attendance": sheet})
}

// GetAttendance returns the sheet for one employee-month, or an empty
// sheet when none has been recorded yet.
func GetAttendance(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	month := c.Query("month")
	if !utils.IsValidMonth(month) {
		utils.RespondWithError(c, http.StatusBadRequest, "month query param must be YYYY-MM")
		return
	}

	var sheet models.AttendanceSheet
	err := config.DB.Where("company_id = ? AND employee_id = ? AND month = ?", actor.CompanyID, id, month).
		First(&sheet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, gin.H{"attendance": gin.H{
			"employeeId": id,
			"month":      month,
			"days":       models.AttendanceDayMap{},
		}})
		return
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch attendance")
		return
	}

	c.JSON(http.StatusOK, gin.H{"attendance": sheet})
}

// GetEmployeeSnapshot returns the derived payroll snapshot for one
// employee-month.
func GetEmployeeSnapshot(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	month := c.Query("month")
	if month == "" {
		month = utils.CurrentMonth()
	}

	snapshot, err := services.EmployeeSnapshot(config.DB, actor, id, month)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"snapshot": snapshot})
}

// GetMonthlyPayroll returns snapshots for every eligible employee.
func GetMonthlyPayroll(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"month":     month,
		"payroll":   snapshots,
		"headcount": len(snapshots),
	})
}

func CreateEmployeePayment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var input EmployeePaymentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payment, err := services.CreateEmployeePayment(config.DB, actor, services.EmployeePaymentInput{
		EmployeeID: input.EmployeeID,
		Month:      input.Month,
		Date:       input.Date,
		Amount:     input.Amount,
		Type:       input.Type,
		Method:     input.Method,
		Notes:      input.Notes,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

func UpdateEmployeePayment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input EmployeePaymentUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payment, err := services.UpdateEmployeePayment(config.DB, actor, id, services.EmployeePaymentUpdate{
		Month:  input.Month,
		Date:   input.Date,
		Amount: input.Amount,
		Type:   input.Type,
		Method: input.Method,
		Notes:  input.Notes,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

func DeleteEmployeePayment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteEmployeePayment(config.DB, actor, id); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee payment deleted"})
}

// ListEmployeePayments returns payments for one employee, optionally
// filtered by month.
func ListEmployeePayments(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	query := config.DB.Where("company_id = ? AND employee_id = ?", actor.CompanyID, id)
	if month := c.Query("month"); month != "" {
		if !utils.IsValidMonth(month) {
			utils.RespondWithError(c, http.StatusBadRequest, "month query param must be YYYY-MM")
			return
		}
		query = query.Where("month = ?", month)
	}

	var payments []models.EmployeePayment
	if err := query.Order("date DESC").Find(&payments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch payments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
