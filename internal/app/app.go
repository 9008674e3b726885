package app

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "workdesk/docs"
	"workdesk/internal/config"
	"workdesk/internal/handlers"
	"workdesk/internal/middleware"
	"workdesk/internal/pdf"
	"workdesk/internal/repositories"
	"workdesk/internal/routes"
	"workdesk/internal/scheduler"
	"workdesk/internal/services"
)

func Run() {
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}
	middleware.SetSecret(cfg.Auth.JWTSecret)

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	taskRepo := repositories.NewTaskRepository(db)
	assignmentRepo := repositories.NewAssignmentRepository(db)
	employeeRepo := repositories.NewEmployeeRepository(db)
	departmentRepo := repositories.NewDepartmentRepository(db)
	machineRepo := repositories.NewMachineRepository(db)

	// === Services ===
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
		cfg.Email.Enabled,
	)
	telegramService := services.NewTelegramService(cfg.Telegram.BotToken)

	creatorResolver := services.NewCreatorResolver(employeeRepo)
	taskService := services.NewTaskService(taskRepo, assignmentRepo, employeeRepo, departmentRepo, creatorResolver)
	employeeService := services.NewEmployeeService(employeeRepo, departmentRepo, machineRepo, assignmentRepo)
	departmentService := services.NewDepartmentService(departmentRepo, employeeRepo)
	machineService := services.NewMachineService(machineRepo)

	holidayService := services.NewHolidayService()
	recurringService := services.NewRecurringTaskService(taskRepo, assignmentRepo, taskService, holidayService)
	reminderService := services.NewReminderService(taskService, assignmentRepo, employeeRepo, emailService)

	pdfGen := pdf.NewReportGenerator(cfg.Files.RootDir)

	// === Scheduler ===
	sched := scheduler.New(time.Local)
	if err := sched.RegisterJobs(cfg.Scheduler, recurringService, reminderService); err != nil {
		log.Fatal("failed to register scheduler jobs: ", err)
	}
	sched.Start()
	defer sched.Stop()

	// === Handlers ===
	tokenTTL := time.Duration(cfg.Auth.TokenTTLMins) * time.Minute
	authHandler := handlers.NewAuthHandler(employeeService, tokenTTL)
	taskHandler := handlers.NewTaskHandler(taskService, telegramService, cfg.Telegram.ChatID)
	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	departmentHandler := handlers.NewDepartmentHandler(departmentService, employeeService, taskService)
	machineHandler := handlers.NewMachineHandler(machineService)
	dashboardHandler := handlers.NewDashboardHandler(taskRepo, assignmentRepo, employeeRepo, taskService)
	reportHandler := handlers.NewReportHandler(departmentService, taskService, pdfGen)

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authHandler,
		taskHandler,
		employeeHandler,
		departmentHandler,
		machineHandler,
		dashboardHandler,
		reportHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server stopped: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
