package main

import (
	"fmt"
	"log"
	"os"

	"buildtrack-backend/config"
	"buildtrack-backend/models"
	"buildtrack-backend/routes"
	"buildtrack-backend/services"
	"buildtrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Project{},
		&models.Vendor{},
		&models.PurchaseEntry{},
		&models.VendorPayment{},
		&models.StockItem{},
		&models.StockUsage{},
		&models.Contractor{},
		&models.ContractorEntry{},
		&models.ContractorPayment{},
		&models.ContractorAllocation{},
		&models.BankAccount{},
		&models.BankTransaction{},
		&models.Employee{},
		&models.AttendanceSheet{},
		&models.EmployeePayment{},
		&models.Machinery{},
		&models.AuditLog{},
		&models.ReminderLog{},
	)

	utils.RegisterCustomValidators()
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	reminders := services.NewReminderService(config.DB)
	reminders.StartScheduler()

	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
