// services/payroll.go
//
// Payroll snapshots are never stored. Payable, paid, remaining and the
// payment status are recomputed from the attendance sheet and payment
// history on every read, so an attendance or payment edit is reflected
// immediately everywhere the month is shown.
package services

import (
	"errors"
	"strconv"

	"buildtrack-backend/models"
	"buildtrack-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPaid    = "paid"
	StatusLate    = "late"
	StatusPartial = "partial"
	StatusDue     = "due"
)

// PayrollSnapshot is the derived month view for one employee.
type PayrollSnapshot struct {
	EmployeeID uuid.UUID `json:"employeeId"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Month      string    `json:"month"`
	Payable    float64   `json:"payable"`
	Paid       float64   `json:"paid"`
	Remaining  float64   `json:"remaining"`
	Status     string    `json:"status"`
}

// FixedPayable computes a fixed-salary employee's month payable. Only
// unpaid leave deducts; paid leave and the legacy 'leave' status cost
// nothing, and days missing from the sheet count as present.
func FixedPayable(monthlySalary float64, daysInMonth int, days models.AttendanceDayMap) float64 {
	unpaidLeaves := 0
	for _, d := range days {
		if d.Status == models.DayUnpaidLeave {
			unpaidLeaves++
		}
	}
	deduction := utils.RoundWhole(monthlySalary / float64(daysInMonth) * float64(unpaidLeaves))
	payable := utils.SumRound(monthlySalary, -deduction)
	if payable < 0 {
		return 0
	}
	return payable
}

// DailyPayable computes a daily-wage employee's month payable. Hours on
// a present day are clamped to the 0-8 paid band; overtime hours are
// unclamped and paid at dailyRate/8 per hour. Days not marked present
// earn nothing.
func DailyPayable(dailyRate float64, days models.AttendanceDayMap) float64 {
	var workedDays, overtimeHours float64
	for _, d := range days {
		if d.Status != models.DayPresent {
			continue
		}
		hours := d.HoursWorked
		if hours < 0 {
			hours = 0
		}
		if hours > 8 {
			hours = 8
		}
		workedDays += hours / 8
		if d.OvertimeHours > 0 {
			overtimeHours += d.OvertimeHours
		}
	}
	wage := utils.RoundWhole(workedDays * dailyRate)
	overtimePay := utils.RoundWhole(overtimeHours * dailyRate / 8)
	return utils.SumRound(wage, overtimePay)
}

func settlementType(employee *models.Employee) string {
	if employee.Type == models.EmployeeDaily {
		return models.PaymentWage
	}
	return models.PaymentSalary
}

// monthPaid sums the month's settlement-type payments and all advances
// tagged to the month, and reports the latest settlement (non-advance)
// date for lateness classification.
func monthPaid(employee *models.Employee, payments []models.EmployeePayment) (paid float64, latestSettlementDate string) {
	settle := settlementType(employee)
	for _, p := range payments {
		switch p.Type {
		case models.PaymentAdvance:
			paid = utils.SumRound(paid, p.Amount)
		case settle:
			paid = utils.SumRound(paid, p.Amount)
			if p.Date > latestSettlementDate {
				latestSettlementDate = p.Date
			}
		}
	}
	return paid, latestSettlementDate
}

func snapshotStatus(payable, paid, remaining float64, latestSettlementDate, monthEnd string) string {
	if payable <= 0 {
		return StatusPaid
	}
	if remaining <= 0 {
		if latestSettlementDate != "" && latestSettlementDate > monthEnd {
			return StatusLate
		}
		return StatusPaid
	}
	if paid > 0 {
		return StatusPartial
	}
	return StatusDue
}

// checkMonthEligible rejects months before the employee joined: those
// months have no data at all, which callers must not confuse with a
// month that simply has nothing due.
func checkMonthEligible(employee *models.Employee, month string) *Error {
	if !utils.IsValidMonth(month) {
		return Validationf("month must be YYYY-MM")
	}
	if month < employee.JoinedMonth {
		return NotFoundf("no payroll data for %s before %s joined in %s", month, employee.Name, employee.JoinedMonth)
	}
	return nil
}

func computePayable(employee *models.Employee, month string, days models.AttendanceDayMap) (float64, error) {
	if employee.Type == models.EmployeeDaily {
		return DailyPayable(employee.DailyRate, days), nil
	}
	daysInMonth, err := utils.DaysInMonth(month)
	if err != nil {
		return 0, Validationf("month must be YYYY-MM")
	}
	return FixedPayable(employee.MonthlySalary, daysInMonth, days), nil
}

func loadAttendanceDays(db *gorm.DB, employeeID uuid.UUID, month string) (models.AttendanceDayMap, error) {
	var sheet models.AttendanceSheet
	err := db.Where("employee_id = ? AND month = ?", employeeID, month).First(&sheet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.AttendanceDayMap{}, nil
	}
	if err != nil {
		return nil, err
	}
	if sheet.Days == nil {
		return models.AttendanceDayMap{}, nil
	}
	return sheet.Days, nil
}

func loadMonthPayments(db *gorm.DB, employeeID uuid.UUID, month string) ([]models.EmployeePayment, error) {
	var payments []models.EmployeePayment
	err := db.Where("employee_id = ? AND month = ?", employeeID, month).
		Order("date ASC, id ASC").
		Find(&payments).Error
	return payments, err
}

func buildSnapshot(db *gorm.DB, employee *models.Employee, month string) (*PayrollSnapshot, error) {
	days, err := loadAttendanceDays(db, employee.ID, month)
	if err != nil {
		return nil, err
	}
	payable, err := computePayable(employee, month, days)
	if err != nil {
		return nil, err
	}

	payments, err := loadMonthPayments(db, employee.ID, month)
	if err != nil {
		return nil, err
	}
	paid, latestSettlement := monthPaid(employee, payments)

	remaining := utils.SumRound(payable, -paid)
	if remaining < 0 {
		remaining = 0
	}
	monthEnd, err := utils.MonthEnd(month)
	if err != nil {
		return nil, Validationf("month must be YYYY-MM")
	}

	return &PayrollSnapshot{
		EmployeeID: employee.ID,
		Name:       employee.Name,
		Type:       employee.Type,
		Month:      month,
		Payable:    payable,
		Paid:       paid,
		Remaining:  remaining,
		Status:     snapshotStatus(payable, paid, remaining, latestSettlement, monthEnd),
	}, nil
}

// EmployeeSnapshot derives the month view for one employee.
func EmployeeSnapshot(db *gorm.DB, actor Actor, employeeID uuid.UUID, month string) (*PayrollSnapshot, error) {
	var employee models.Employee
	if err := db.Where("company_id = ? AND id = ?", actor.CompanyID, employeeID).
		First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("employee not found")
		}
		return nil, err
	}
	if eerr := checkMonthEligible(&employee, month); eerr != nil {
		return nil, eerr
	}
	return buildSnapshot(db, &employee, month)
}

// MonthlyPayroll derives snapshots for every employee on the books in
// the given month. Employees who joined later are skipped rather than
// shown with zeros.
func MonthlyPayroll(db *gorm.DB, actor Actor, month string) ([]PayrollSnapshot, error) {
	if !utils.IsValidMonth(month) {
		return nil, Validationf("month must be YYYY-MM")
	}
	var employees []models.Employee
	if err := db.Where("company_id = ?", actor.CompanyID).
		Order("name ASC").
		Find(&employees).Error; err != nil {
		return nil, err
	}

	snapshots := make([]PayrollSnapshot, 0, len(employees))
	for i := range employees {
		if month < employees[i].JoinedMonth {
			continue
		}
		snap, err := buildSnapshot(db, &employees[i], month)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *snap)
	}
	return snapshots, nil
}

func validateAttendanceDays(employee *models.Employee, month string, days models.AttendanceDayMap) *Error {
	daysInMonth, err := utils.DaysInMonth(month)
	if err != nil {
		return Validationf("month must be YYYY-MM")
	}
	for key, d := range days {
		dayNum, err := strconv.Atoi(key)
		if err != nil || dayNum < 1 || dayNum > daysInMonth {
			return Validationf("day %q is not a valid day of %s", key, month)
		}
		switch employee.Type {
		case models.EmployeeDaily:
			switch d.Status {
			case models.DayPresent, models.DayAbsent, models.DayLeave:
			default:
				return Validationf("day %s: status %q is not valid for a daily employee", key, d.Status)
			}
			if d.HoursWorked < 0 || d.HoursWorked > 24 {
				return Validationf("day %s: hours worked out of range", key)
			}
			if d.OvertimeHours < 0 {
				return Validationf("day %s: overtime hours cannot be negative", key)
			}
		default:
			switch d.Status {
			case models.DayPresent, models.DayAbsent, models.DayPaidLeave, models.DayUnpaidLeave, models.DayLeave:
			default:
				return Validationf("day %s: status %q is not valid for a fixed employee", key, d.Status)
			}
		}
	}
	return nil
}

// SaveAttendance creates or replaces the employee's sheet for a month.
// The edit is rejected when the proposed attendance would drop payable
// below what has already been paid for that month; the caller must
// record an explicit adjustment payment instead.
func SaveAttendance(db *gorm.DB, actor Actor, employeeID uuid.UUID, month string, days models.AttendanceDayMap) (*models.AttendanceSheet, error) {
	if days == nil {
		days = models.AttendanceDayMap{}
	}

	var sheet models.AttendanceSheet
	err := db.Transaction(func(tx *gorm.DB) error {
		var employee models.Employee
		if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, employeeID).
			First(&employee).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("employee not found")
			}
			return err
		}
		if eerr := checkMonthEligible(&employee, month); eerr != nil {
			return eerr
		}
		if verr := validateAttendanceDays(&employee, month, days); verr != nil {
			return verr
		}

		newPayable, err := computePayable(&employee, month, days)
		if err != nil {
			return err
		}
		payments, err := loadMonthPayments(tx, employeeID, month)
		if err != nil {
			return err
		}
		alreadyPaid, _ := monthPaid(&employee, payments)
		if alreadyPaid > newPayable {
			return Invariantf("attendance change would drop payable to %.2f below the %.2f already paid for %s",
				newPayable, alreadyPaid, month)
		}

		err = tx.Where("employee_id = ? AND month = ?", employeeID, month).First(&sheet).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			sheet = models.AttendanceSheet{
				CompanyID:  actor.CompanyID,
				EmployeeID: employeeID,
				Month:      month,
				Days:       days,
			}
			if err := tx.Create(&sheet).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			sheet.Days = days
			if err := tx.Save(&sheet).Error; err != nil {
				return err
			}
		}

		WriteAudit(tx, AuditEntry{
			Actor:       actor,
			Action:      models.AuditActionUpdate,
			Module:      "payroll",
			EntityID:    sheet.ID,
			Description: "attendance saved for " + employee.Name + " " + month,
			NewValue:    sheet,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sheet, nil
}

// EmployeePaymentInput carries caller-supplied fields for a payroll
// payment. Month tags which period the money settles; Date is when it
// actually moved.
type EmployeePaymentInput struct {
	EmployeeID uuid.UUID
	Month      string
	Date       string
	Amount     float64
	Type       string
	Method     string
	Notes      string
}

type EmployeePaymentUpdate struct {
	Month  *string
	Date   *string
	Amount *float64
	Type   *string
	Method *string
	Notes  *string
}

func validateEmployeePayment(employee *models.Employee, month, date string, amount float64, paymentType string) *Error {
	if amount <= 0 {
		return Validationf("amount must be positive")
	}
	if !utils.IsValidMonth(month) {
		return Validationf("month must be YYYY-MM")
	}
	if !utils.IsValidDate(date) {
		return Validationf("date must be YYYY-MM-DD")
	}
	switch paymentType {
	case models.PaymentAdvance:
	case models.PaymentSalary:
		if employee.Type != models.EmployeeFixed {
			return Validationf("salary payments apply only to fixed employees")
		}
	case models.PaymentWage:
		if employee.Type != models.EmployeeDaily {
			return Validationf("wage payments apply only to daily employees")
		}
	default:
		return Validationf("payment type must be advance, salary or wage")
	}
	return nil
}

// checkPaymentCapacity verifies that paying extraAmount into the month on
// top of what is already counted (minus excludePaymentID's own amount)
// stays within payable. The error reports the maximum still allowed.
func checkPaymentCapacity(employee *models.Employee, month string, payable, extraAmount float64, payments []models.EmployeePayment, excludePaymentID uuid.UUID) *Error {
	if payable <= 0 {
		return Validationf("no dues for %s in %s", employee.Name, month)
	}
	filtered := make([]models.EmployeePayment, 0, len(payments))
	for _, p := range payments {
		if p.ID != excludePaymentID {
			filtered = append(filtered, p)
		}
	}
	currentPaid, _ := monthPaid(employee, filtered)

	if utils.SumRound(currentPaid, extraAmount) > payable {
		maxAllowed := utils.SumRound(payable, -currentPaid)
		if maxAllowed < 0 {
			maxAllowed = 0
		}
		return Validationf("payment exceeds dues for %s: maximum allowed is %.2f", month, maxAllowed)
	}
	return nil
}

func checkMonthCapacity(tx *gorm.DB, employee *models.Employee, month string, extraAmount float64, excludePaymentID uuid.UUID) error {
	days, err := loadAttendanceDays(tx, employee.ID, month)
	if err != nil {
		return err
	}
	payable, err := computePayable(employee, month, days)
	if err != nil {
		return err
	}
	payments, err := loadMonthPayments(tx, employee.ID, month)
	if err != nil {
		return err
	}
	if verr := checkPaymentCapacity(employee, month, payable, extraAmount, payments, excludePaymentID); verr != nil {
		return verr
	}
	return nil
}

func CreateEmployeePayment(db *gorm.DB, actor Actor, in EmployeePaymentInput) (*models.EmployeePayment, error) {
	var payment models.EmployeePayment
	err := db.Transaction(func(tx *gorm.DB) error {
		var employee models.Employee
		if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, in.EmployeeID).
			First(&employee).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("employee not found")
			}
			return err
		}
		if verr := validateEmployeePayment(&employee, in.Month, in.Date, in.Amount, in.Type); verr != nil {
			return verr
		}
		if eerr := checkMonthEligible(&employee, in.Month); eerr != nil {
			return eerr
		}
		if err := checkMonthCapacity(tx, &employee, in.Month, in.Amount, uuid.Nil); err != nil {
			return err
		}

		payment = models.EmployeePayment{
			CompanyID:  actor.CompanyID,
			EmployeeID: employee.ID,
			Month:      in.Month,
			Date:       in.Date,
			Amount:     utils.Round2(in.Amount),
			Type:       in.Type,
			Method:     in.Method,
			Notes:      in.Notes,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		WriteAudit(tx, AuditEntry{
			Actor:       actor,
			Action:      models.AuditActionCreate,
			Module:      "payroll",
			EntityID:    payment.ID,
			Description: "payment to " + employee.Name + " for " + in.Month,
			NewValue:    payment,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// UpdateEmployeePayment re-validates the month's capacity with the
// payment's old amount excluded. Moving the payment to another month
// checks both months independently.
func UpdateEmployeePayment(db *gorm.DB, actor Actor, id uuid.UUID, in EmployeePaymentUpdate) (*models.EmployeePayment, error) {
	var payment models.EmployeePayment
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, id).
			First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("employee payment not found")
			}
			return err
		}
		old := payment

		var employee models.Employee
		if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, payment.EmployeeID).
			First(&employee).Error; err != nil {
			return err
		}

		if in.Month != nil {
			payment.Month = *in.Month
		}
		if in.Date != nil {
			payment.Date = *in.Date
		}
		if in.Amount != nil {
			payment.Amount = utils.Round2(*in.Amount)
		}
		if in.Type != nil {
			payment.Type = *in.Type
		}
		if in.Method != nil {
			payment.Method = *in.Method
		}
		if in.Notes != nil {
			payment.Notes = *in.Notes
		}

		if verr := validateEmployeePayment(&employee, payment.Month, payment.Date, payment.Amount, payment.Type); verr != nil {
			return verr
		}
		if eerr := checkMonthEligible(&employee, payment.Month); eerr != nil {
			return eerr
		}

		if payment.Month == old.Month {
			if err := checkMonthCapacity(tx, &employee, payment.Month, payment.Amount, old.ID); err != nil {
				return err
			}
		} else {
			// The origin month must still hold without this payment,
			// and the destination month must absorb the full amount.
			if err := checkMonthRetention(tx, &employee, old.Month, old.ID); err != nil {
				return err
			}
			if err := checkMonthCapacity(tx, &employee, payment.Month, payment.Amount, old.ID); err != nil {
				return err
			}
		}

		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		WriteAudit(tx, AuditEntry{
			Actor:       actor,
			Action:      models.AuditActionUpdate,
			Module:      "payroll",
			EntityID:    payment.ID,
			Description: "employee payment edited",
			OldValue:    old,
			NewValue:    payment,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// checkMonthRetention verifies a month stays consistent after removing
// one payment from it: what remains paid must not exceed its payable.
func checkMonthRetention(tx *gorm.DB, employee *models.Employee, month string, removedPaymentID uuid.UUID) error {
	days, err := loadAttendanceDays(tx, employee.ID, month)
	if err != nil {
		return err
	}
	payable, err := computePayable(employee, month, days)
	if err != nil {
		return err
	}
	payments, err := loadMonthPayments(tx, employee.ID, month)
	if err != nil {
		return err
	}
	filtered := payments[:0]
	for _, p := range payments {
		if p.ID != removedPaymentID {
			filtered = append(filtered, p)
		}
	}
	remainingPaid, _ := monthPaid(employee, filtered)
	if remainingPaid > payable {
		return Invariantf("moving the payment would leave %s paid %.2f against payable %.2f", month, remainingPaid, payable)
	}
	return nil
}

func DeleteEmployeePayment(db *gorm.DB, actor Actor, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var payment models.EmployeePayment
		if err := tx.Where("company_id = ? AND id = ?", actor.CompanyID, id).
			First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("employee payment not found")
			}
			return err
		}

		if err := tx.Delete(&payment).Error; err != nil {
			return err
		}

		WriteAudit(tx, AuditEntry{
			Actor:       actor,
			Action:      models.AuditActionDelete,
			Module:      "payroll",
			EntityID:    payment.ID,
			Description: "employee payment removed",
			OldValue:    payment,
		})
		return nil
	})
}
