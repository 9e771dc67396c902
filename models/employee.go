package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EmployeeFixed = "fixed"
	EmployeeDaily = "daily"
)

type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name  string `gorm:"not null"`
	Phone string
	Role  string // designation, free text

	Type          string  `gorm:"type:varchar(10);not null"` // 'fixed' or 'daily'
	MonthlySalary float64 `gorm:"type:decimal(14,2);default:0.0"`
	DailyRate     float64 `gorm:"type:decimal(12,2);default:0.0"`

	// First month the employee is on the books; payroll months before
	// this have no data, which is distinct from a zero snapshot.
	JoinedMonth string `gorm:"type:varchar(7);not null"` // YYYY-MM

	IsActive bool `gorm:"default:true"`

	gorm.Model
}

func (e *Employee) BeforeCreate(tx *gorm.DB) (err error) {
	e.ID = uuid.New()
	return
}

// Attendance day statuses. Fixed employees use present/absent/paid_leave/
// unpaid_leave (plus the legacy 'leave', treated as paid). Daily employees
// use present/absent/leave.
const (
	DayPresent     = "present"
	DayAbsent      = "absent"
	DayPaidLeave   = "paid_leave"
	DayUnpaidLeave = "unpaid_leave"
	DayLeave       = "leave"
)

type AttendanceDay struct {
	Status        string  `json:"status"`
	HoursWorked   float64 `json:"hoursWorked,omitempty"`   // daily type, clamped to 0-8 for pay
	OvertimeHours float64 `json:"overtimeHours,omitempty"` // daily type, unclamped
}

// AttendanceDayMap is a sparse day-number -> record map stored as JSONB.
// Days absent from the map default to present for fixed employees; daily
// employees earn only from explicit present rows.
type AttendanceDayMap map[string]AttendanceDay

func (m AttendanceDayMap) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *AttendanceDayMap) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &m)
}

// AttendanceSheet holds one employee's attendance for one month.
type AttendanceSheet struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID  uuid.UUID `gorm:"type:uuid;index;not null"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_employee_month,priority:1"`

	Month string           `gorm:"type:varchar(7);not null;uniqueIndex:idx_employee_month,priority:2"` // YYYY-MM
	Days  AttendanceDayMap `gorm:"type:jsonb;default:'{}'"`

	Employee Employee `gorm:"foreignKey:EmployeeID"`

	gorm.Model
}

func (s *AttendanceSheet) BeforeCreate(tx *gorm.DB) (err error) {
	s.ID = uuid.New()
	return
}

const (
	PaymentAdvance = "advance"
	PaymentSalary  = "salary"
	PaymentWage    = "wage"
)

// EmployeePayment is tagged to the month it settles (or pre-pays, for
// advances). Date is the actual payment date and may fall outside Month.
type EmployeePayment struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;index;not null"`
	EmployeeID uuid.UUID `gorm:"type:uuid;index;not null"`

	Month  string  `gorm:"type:varchar(7);index;not null"`  // YYYY-MM
	Date   string  `gorm:"type:varchar(10);index;not null"` // YYYY-MM-DD
	Amount float64 `gorm:"type:decimal(14,2);not null"`
	Type   string  `gorm:"type:varchar(10);not null"` // 'advance', 'salary', 'wage'
	Method string  `gorm:"type:varchar(20)"`
	Notes  string

	Employee Employee `gorm:"foreignKey:EmployeeID"`

	gorm.Model
}

func (p *EmployeePayment) BeforeCreate(tx *gorm.DB) (err error) {
	p.ID = uuid.New()
	return
}
