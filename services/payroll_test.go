package services

import (
	"testing"

	"buildtrack-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedPayableUnpaidLeaveDeduction(t *testing.T) {
	days := models.AttendanceDayMap{
		"3":  {Status: models.DayUnpaidLeave},
		"12": {Status: models.DayUnpaidLeave},
		"25": {Status: models.DayUnpaidLeave},
	}
	// 30000 / 30 * 3 = 3000 deducted.
	assert.Equal(t, 27000.0, FixedPayable(30000, 30, days))
}

func TestFixedPayablePaidLeaveCostsNothing(t *testing.T) {
	days := models.AttendanceDayMap{
		"1": {Status: models.DayPaidLeave},
		"2": {Status: models.DayLeave},
		"3": {Status: models.DayAbsent},
		"4": {Status: models.DayPresent},
	}
	assert.Equal(t, 30000.0, FixedPayable(30000, 30, days))
}

func TestFixedPayableEmptySheetIsFullSalary(t *testing.T) {
	assert.Equal(t, 45000.0, FixedPayable(45000, 31, models.AttendanceDayMap{}))
}

func TestFixedPayableNeverNegative(t *testing.T) {
	days := models.AttendanceDayMap{}
	for _, d := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10",
		"11", "12", "13", "14", "15", "16", "17", "18", "19", "20",
		"21", "22", "23", "24", "25", "26", "27", "28"} {
		days[d] = models.AttendanceDay{Status: models.DayUnpaidLeave}
	}
	assert.Equal(t, 0.0, FixedPayable(28000, 28, days))
}

func TestFixedPayableRoundsDeductionToWholeUnit(t *testing.T) {
	days := models.AttendanceDayMap{
		"7": {Status: models.DayUnpaidLeave},
	}
	// 10000 / 31 = 322.58..., rounds to 323.
	assert.Equal(t, 9677.0, FixedPayable(10000, 31, days))
}

func TestDailyPayableHalfDayWithOvertime(t *testing.T) {
	days := models.AttendanceDayMap{
		"5": {Status: models.DayPresent, HoursWorked: 4, OvertimeHours: 2},
	}
	// 0.5 day at 1000 plus 2h at 125/h.
	assert.Equal(t, 750.0, DailyPayable(1000, days))
}

func TestDailyPayableClampsHoursToEight(t *testing.T) {
	days := models.AttendanceDayMap{
		"5": {Status: models.DayPresent, HoursWorked: 12},
	}
	assert.Equal(t, 1000.0, DailyPayable(1000, days))
}

func TestDailyPayableOvertimeUnclamped(t *testing.T) {
	days := models.AttendanceDayMap{
		"5": {Status: models.DayPresent, HoursWorked: 8, OvertimeHours: 10},
	}
	assert.Equal(t, 2250.0, DailyPayable(1000, days))
}

func TestDailyPayableOnlyPresentDaysEarn(t *testing.T) {
	days := models.AttendanceDayMap{
		"1": {Status: models.DayAbsent, HoursWorked: 8, OvertimeHours: 4},
		"2": {Status: models.DayLeave, HoursWorked: 8},
	}
	assert.Equal(t, 0.0, DailyPayable(1000, days))
}

func TestDailyPayableEmptySheetEarnsNothing(t *testing.T) {
	assert.Equal(t, 0.0, DailyPayable(1500, models.AttendanceDayMap{}))
}

func TestDailyPayableMultipleDays(t *testing.T) {
	days := models.AttendanceDayMap{
		"1": {Status: models.DayPresent, HoursWorked: 8},
		"2": {Status: models.DayPresent, HoursWorked: 8},
		"3": {Status: models.DayPresent, HoursWorked: 6, OvertimeHours: 1},
	}
	// 2.75 days at 800 = 2200, plus 1h overtime at 100.
	assert.Equal(t, 2300.0, DailyPayable(800, days))
}

func TestSnapshotStatus(t *testing.T) {
	monthEnd := "2026-04-30"
	cases := []struct {
		name             string
		payable          float64
		paid             float64
		latestSettlement string
		want             string
	}{
		{"nothing owed", 0, 0, "", StatusPaid},
		{"settled in period", 1000, 1000, "2026-04-28", StatusPaid},
		{"settled on last day", 1000, 1000, "2026-04-30", StatusPaid},
		{"settled after period end", 1000, 1000, "2026-05-01", StatusLate},
		{"settled by advances only", 1000, 1000, "", StatusPaid},
		{"partially paid", 1000, 400, "2026-04-15", StatusPartial},
		{"nothing paid", 1000, 0, "", StatusDue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			remaining := tc.payable - tc.paid
			if remaining < 0 {
				remaining = 0
			}
			got := snapshotStatus(tc.payable, tc.paid, remaining, tc.latestSettlement, monthEnd)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMonthPaidCountsSettlementAndAdvances(t *testing.T) {
	employee := models.Employee{Type: models.EmployeeFixed}
	payments := []models.EmployeePayment{
		{Type: models.PaymentAdvance, Amount: 5000, Date: "2026-03-20"},
		{Type: models.PaymentSalary, Amount: 10000, Date: "2026-04-05"},
		{Type: models.PaymentSalary, Amount: 15000, Date: "2026-05-02"},
		// Wage payments never count for a fixed employee.
		{Type: models.PaymentWage, Amount: 9999, Date: "2026-04-10"},
	}

	paid, latestSettlement := monthPaid(&employee, payments)
	assert.Equal(t, 30000.0, paid)
	assert.Equal(t, "2026-05-02", latestSettlement)
}

func TestMonthPaidDailyUsesWageType(t *testing.T) {
	employee := models.Employee{Type: models.EmployeeDaily}
	payments := []models.EmployeePayment{
		{Type: models.PaymentWage, Amount: 8000, Date: "2026-04-30"},
		{Type: models.PaymentSalary, Amount: 5000, Date: "2026-04-30"},
		{Type: models.PaymentAdvance, Amount: 1000, Date: "2026-04-01"},
	}

	paid, latestSettlement := monthPaid(&employee, payments)
	assert.Equal(t, 9000.0, paid)
	assert.Equal(t, "2026-04-30", latestSettlement)
}

func TestCheckMonthEligible(t *testing.T) {
	employee := models.Employee{Name: "Ravi", JoinedMonth: "2026-03"}

	assert.Nil(t, checkMonthEligible(&employee, "2026-03"))
	assert.Nil(t, checkMonthEligible(&employee, "2026-07"))

	err := checkMonthEligible(&employee, "2026-02")
	require.NotNil(t, err)
	assert.Equal(t, KindNotFound, err.Kind)

	err = checkMonthEligible(&employee, "2026/03")
	require.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
}

func TestCheckPaymentCapacityReportsMaxAllowed(t *testing.T) {
	employee := models.Employee{Name: "Ravi", Type: models.EmployeeFixed}

	// Asking for 100 against 80 of dues fails and names the ceiling.
	err := checkPaymentCapacity(&employee, "2026-04", 80, 100, nil, uuid.Nil)
	require.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
	assert.Contains(t, err.Error(), "maximum allowed is 80.00")

	assert.Nil(t, checkPaymentCapacity(&employee, "2026-04", 80, 80, nil, uuid.Nil))
}

func TestCheckPaymentCapacityCountsExistingPayments(t *testing.T) {
	employee := models.Employee{Name: "Ravi", Type: models.EmployeeFixed}
	payments := []models.EmployeePayment{
		{ID: uuid.New(), Type: models.PaymentAdvance, Amount: 5000, Month: "2026-04", Date: "2026-04-10"},
	}

	err := checkPaymentCapacity(&employee, "2026-04", 12000, 8000, payments, uuid.Nil)
	require.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
	assert.Contains(t, err.Error(), "maximum allowed is 7000.00")

	// Editing the advance itself excludes its old amount from the count.
	assert.Nil(t, checkPaymentCapacity(&employee, "2026-04", 12000, 8000, payments, payments[0].ID))
}

func TestCheckPaymentCapacityNoDues(t *testing.T) {
	employee := models.Employee{Name: "Ravi", Type: models.EmployeeDaily}

	err := checkPaymentCapacity(&employee, "2026-04", 0, 500, nil, uuid.Nil)
	require.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
	assert.Contains(t, err.Error(), "no dues")
}

func TestValidateEmployeePaymentTypeByEmployeeType(t *testing.T) {
	fixed := models.Employee{Type: models.EmployeeFixed}
	daily := models.Employee{Type: models.EmployeeDaily}

	assert.Nil(t, validateEmployeePayment(&fixed, "2026-04", "2026-04-30", 1000, models.PaymentSalary))
	assert.Nil(t, validateEmployeePayment(&fixed, "2026-04", "2026-04-30", 1000, models.PaymentAdvance))
	assert.Nil(t, validateEmployeePayment(&daily, "2026-04", "2026-04-30", 1000, models.PaymentWage))

	err := validateEmployeePayment(&fixed, "2026-04", "2026-04-30", 1000, models.PaymentWage)
	require.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)

	err = validateEmployeePayment(&daily, "2026-04", "2026-04-30", 1000, models.PaymentSalary)
	require.NotNil(t, err)

	err = validateEmployeePayment(&fixed, "2026-04", "2026-04-30", -5, models.PaymentSalary)
	require.NotNil(t, err)

	err = validateEmployeePayment(&fixed, "2026-04", "30-04-2026", 1000, models.PaymentSalary)
	require.NotNil(t, err)

	err = validateEmployeePayment(&fixed, "2026-04", "2026-04-30", 1000, "bonus")
	require.NotNil(t, err)
}

func TestValidateAttendanceDays(t *testing.T) {
	fixed := models.Employee{Type: models.EmployeeFixed}
	daily := models.Employee{Type: models.EmployeeDaily}

	assert.Nil(t, validateAttendanceDays(&fixed, "2026-04", models.AttendanceDayMap{
		"1":  {Status: models.DayPresent},
		"15": {Status: models.DayUnpaidLeave},
		"30": {Status: models.DayPaidLeave},
	}))

	// Day 31 does not exist in April.
	err := validateAttendanceDays(&fixed, "2026-04", models.AttendanceDayMap{
		"31": {Status: models.DayPresent},
	})
	require.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)

	// unpaid_leave is a fixed-only status.
	err = validateAttendanceDays(&daily, "2026-04", models.AttendanceDayMap{
		"10": {Status: models.DayUnpaidLeave},
	})
	require.NotNil(t, err)

	err = validateAttendanceDays(&daily, "2026-04", models.AttendanceDayMap{
		"10": {Status: models.DayPresent, HoursWorked: -2},
	})
	require.NotNil(t, err)

	err = validateAttendanceDays(&fixed, "2026-04", models.AttendanceDayMap{
		"x": {Status: models.DayPresent},
	})
	require.NotNil(t, err)
}
