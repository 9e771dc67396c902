package routes

import (
	"buildtrack-backend/config"
	"buildtrack-backend/controllers"
	"buildtrack-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Company settings
		company := api.Group("/company")
		{
			company.GET("", controllers.GetCompanyProfile)
			company.PUT("", utils.OwnerOnly(), controllers.UpdateCompanyProfile)
		}

		// Users
		api.POST("/site-managers", utils.OwnerOnly(), controllers.CreateSiteManager)

		// Projects
		projects := api.Group("/projects")
		{
			projects.POST("", utils.OwnerOnly(), controllers.CreateProject)
			projects.GET("", controllers.ListProjects)
			projects.GET("/:id", controllers.GetProject)
			projects.PUT("/:id", utils.OwnerOnly(), controllers.UpdateProject)
			projects.DELETE("/:id", utils.OwnerOnly(), controllers.DeleteProject)
		}

		// Vendors and the purchase ledger
		vendors := api.Group("/vendors")
		{
			vendors.POST("", controllers.CreateVendor)
			vendors.GET("", controllers.ListVendors)
			vendors.PUT("/:id", controllers.UpdateVendor)
			vendors.GET("/:id/ledger", controllers.GetVendorLedger)
			vendors.GET("/:id/ledger/export", controllers.ExportVendorLedger)
		}
		purchases := api.Group("/purchase-entries")
		{
			purchases.POST("", controllers.CreatePurchaseEntry)
			purchases.PUT("/:id", controllers.UpdatePurchaseEntry)
			purchases.DELETE("/:id", controllers.DeletePurchaseEntry)
		}
		vendorPayments := api.Group("/vendor-payments")
		{
			vendorPayments.POST("", controllers.CreateVendorPayment)
			vendorPayments.DELETE("/:id", controllers.DeleteVendorPayment)
		}

		// Contractors and their materialized ledger
		contractors := api.Group("/contractors")
		{
			contractors.POST("", controllers.CreateContractor)
			contractors.GET("", controllers.ListContractors)
			contractors.PUT("/:id", controllers.UpdateContractor)
			contractors.GET("/:id/ledger", controllers.GetContractorLedger)
		}
		contractorEntries := api.Group("/contractor-entries")
		{
			contractorEntries.POST("", controllers.CreateContractorEntry)
			contractorEntries.PUT("/:id", controllers.UpdateContractorEntry)
			contractorEntries.DELETE("/:id", controllers.DeleteContractorEntry)
		}
		contractorPayments := api.Group("/contractor-payments")
		{
			contractorPayments.POST("", controllers.CreateContractorPayment)
			contractorPayments.PUT("/:id", controllers.UpdateContractorPayment)
			contractorPayments.DELETE("/:id", controllers.DeleteContractorPayment)
		}

		// Bank accounts and transactions
		accounts := api.Group("/bank-accounts")
		{
			accounts.POST("", utils.OwnerOnly(), controllers.CreateBankAccount)
			accounts.GET("", controllers.ListBankAccounts)
			accounts.PUT("/:id", utils.OwnerOnly(), controllers.UpdateBankAccount)
			accounts.GET("/:id/statement", controllers.GetAccountStatement)
		}
		transactions := api.Group("/bank-transactions")
		{
			transactions.POST("", controllers.CreateBankTransaction)
			transactions.PUT("/:id", controllers.UpdateBankTransaction)
			transactions.DELETE("/:id", controllers.DeleteBankTransaction)
		}

		// Employees, attendance and payroll
		employees := api.Group("/employees")
		{
			employees.POST("", utils.OwnerOnly(), controllers.CreateEmployee)
			employees.GET("", controllers.ListEmployees)
			employees.PUT("/:id", utils.OwnerOnly(), controllers.UpdateEmployee)
			employees.GET("/:id/attendance", controllers.GetAttendance)
			employees.GET("/:id/snapshot", controllers.GetEmployeeSnapshot)
			employees.GET("/:id/payments", controllers.ListEmployeePayments)
		}
		api.POST("/attendance", controllers.SaveAttendance)
		api.GET("/payroll", controllers.GetMonthlyPayroll)
		api.GET("/payroll/export", controllers.ExportMonthlyPayroll)
		employeePayments := api.Group("/employee-payments")
		{
			employeePayments.POST("", controllers.CreateEmployeePayment)
			employeePayments.PUT("/:id", controllers.UpdateEmployeePayment)
			employeePayments.DELETE("/:id", controllers.DeleteEmployeePayment)
		}

		// Stock
		stock := api.Group("/stock-items")
		{
			stock.POST("", controllers.CreateStockItem)
			stock.GET("", controllers.ListStockItems)
		}
		usage := api.Group("/stock-usage")
		{
			usage.POST("", controllers.RecordStockUsage)
			usage.GET("", controllers.ListStockUsage)
			usage.DELETE("/:id", controllers.DeleteStockUsage)
		}

		// Machinery register
		machinery := api.Group("/machinery")
		{
			machinery.POST("", controllers.CreateMachinery)
			machinery.GET("", controllers.ListMachinery)
			machinery.PUT("/:id", controllers.UpdateMachinery)
			machinery.DELETE("/:id", controllers.DeleteMachinery)
		}

		// Reports and dashboard
		api.GET("/reports/financial-summary", controllers.GetFinancialSummary)
		api.GET("/dashboard", controllers.GetDashboardOverview)

		// Logs
		api.GET("/reminder-logs", controllers.ListReminderLogs)
		api.GET("/audit-logs", utils.OwnerOnly(), controllers.ListAuditLogs)
	}

	return r
}
