// services/reminder_service.go
package services

import (
	"fmt"
	"os"
	"strings"
	"time"

	"buildtrack-backend/config"
	"buildtrack-backend/models"
	"buildtrack-backend/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// ReminderService sends each company owner a daily summary of
// outstanding vendor and contractor dues.
type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB) *ReminderService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Every day at 9 AM
	if _, err := c.AddFunc("0 9 * * *", s.SendDailyReminders); err != nil {
		config.GetLogger().WithError(err).Error("Failed to schedule dues reminders")
		return
	}

	c.Start()
	config.GetLogger().Info("Dues reminder scheduler started")
}

func (s *ReminderService) SendDailyReminders() {
	logger := config.GetLogger()
	logger.Info("Starting daily dues reminder processing...")

	var companies []models.Company
	if err := s.db.Where("dues_reminders = ?", true).Find(&companies).Error; err != nil {
		config.LogError(logger, "reminder", "SendDailyReminders", "fetch companies", err)
		return
	}

	for _, company := range companies {
		s.ProcessCompanyReminders(company)
	}

	logger.Info("Daily dues reminder processing completed")
}

func (s *ReminderService) ProcessCompanyReminders(company models.Company) {
	logger := config.GetLogger()

	if company.OwnerPhone == "" {
		return
	}

	vendorDues, err := s.outstandingVendorDues(company.ID)
	if err != nil {
		config.LogError(logger, "reminder", "ProcessCompanyReminders", "vendor dues for "+company.ID.String(), err)
		return
	}
	contractorDues, err := s.outstandingContractorDues(company.ID)
	if err != nil {
		config.LogError(logger, "reminder", "ProcessCompanyReminders", "contractor dues for "+company.ID.String(), err)
		return
	}
	if vendorDues <= 0 && contractorDues <= 0 {
		return
	}

	message := fmt.Sprintf(
		"BuildTrack daily dues summary for %s: vendor dues %.2f, contractor dues %.2f, total outstanding %.2f.",
		company.Name, vendorDues, contractorDues, utils.SumRound(vendorDues, contractorDues))

	s.sendReminder(company, "dues_summary", message)
}

// outstandingVendorDues is the company-wide sum of purchase totals minus
// everything paid (entry paid amounts plus standalone payments).
func (s *ReminderService) outstandingVendorDues(companyID uuid.UUID) (float64, error) {
	var totalBilled, entryPaid, standalonePaid float64
	if err := s.db.Model(&models.PurchaseEntry{}).
		Where("company_id = ?", companyID).
		Select("COALESCE(SUM(total_price), 0)").Scan(&totalBilled).Error; err != nil {
		return 0, err
	}
	if err := s.db.Model(&models.PurchaseEntry{}).
		Where("company_id = ?", companyID).
		Select("COALESCE(SUM(paid_amount), 0)").Scan(&entryPaid).Error; err != nil {
		return 0, err
	}
	if err := s.db.Model(&models.VendorPayment{}).
		Where("company_id = ?", companyID).
		Select("COALESCE(SUM(amount), 0)").Scan(&standalonePaid).Error; err != nil {
		return 0, err
	}
	due := utils.SumRound(totalBilled, -entryPaid, -standalonePaid)
	if due < 0 {
		return 0, nil
	}
	return due, nil
}

func (s *ReminderService) outstandingContractorDues(companyID uuid.UUID) (float64, error) {
	var totalBilled, entryPaid, standalonePaid float64
	if err := s.db.Model(&models.ContractorEntry{}).
		Where("company_id = ?", companyID).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalBilled).Error; err != nil {
		return 0, err
	}
	if err := s.db.Model(&models.ContractorEntry{}).
		Where("company_id = ?", companyID).
		Select("COALESCE(SUM(paid_amount), 0)").Scan(&entryPaid).Error; err != nil {
		return 0, err
	}
	if err := s.db.Model(&models.ContractorPayment{}).
		Where("company_id = ?", companyID).
		Select("COALESCE(SUM(amount), 0)").Scan(&standalonePaid).Error; err != nil {
		return 0, err
	}
	due := utils.SumRound(totalBilled, -entryPaid, -standalonePaid)
	if due < 0 {
		return 0, nil
	}
	return due, nil
}

func (s *ReminderService) sendReminder(company models.Company, reminderType, message string) {
	logger := config.GetLogger()

	channel := "sms"
	to := company.OwnerPhone
	if company.WhatsAppNotifications && strings.HasPrefix(company.OwnerPhone, "+") {
		to = "whatsapp:" + company.OwnerPhone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)
	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		config.LogError(logger, "reminder", "sendReminder", "send to "+company.OwnerPhone, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		logger.WithField("sid", *resp.Sid).Info("Dues reminder sent to " + company.Name)
	}

	reminderLog := models.ReminderLog{
		CompanyID:    company.ID,
		Type:         reminderType,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      channel,
		SentAt:       time.Now(),
	}
	if err := s.db.Create(&reminderLog).Error; err != nil {
		config.LogError(logger, "reminder", "sendReminder", "log reminder for "+company.ID.String(), err)
	}
}
