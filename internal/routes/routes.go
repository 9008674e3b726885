package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workdesk/internal/handlers"
	"workdesk/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	taskHandler *handlers.TaskHandler,
	employeeHandler *handlers.EmployeeHandler,
	departmentHandler *handlers.DepartmentHandler,
	machineHandler *handlers.MachineHandler,
	dashboardHandler *handlers.DashboardHandler,
	reportHandler *handlers.ReportHandler,
) *gin.Engine {

	// ---- public
	r.POST("/login", authHandler.Login)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ---- protected
	r.Use(middleware.AuthMiddleware())

	// TASKS
	tasks := r.Group("/tasks")
	{
		tasks.GET("/", taskHandler.GetAll)
		tasks.GET("/my", taskHandler.MyAssignments)
		tasks.POST("/personal", taskHandler.CreatePersonal)
		tasks.DELETE("/personal/:id", taskHandler.DeletePersonal)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.GET("/:id/assignments", taskHandler.Assignments)
		tasks.POST("/:id/my-status", taskHandler.UpdateIndividualStatus)
		tasks.POST("/:id/report", taskHandler.SubmitReport)

		admin := tasks.Group("", middleware.AdminOnly())
		{
			admin.POST("/", taskHandler.Create)
			admin.PUT("/:id", taskHandler.Update)
			admin.DELETE("/:id", taskHandler.Delete)
			admin.POST("/:id/status", taskHandler.ChangeStatus)
		}
	}

	// EMPLOYEES
	employees := r.Group("/employees")
	{
		employees.GET("/:id", employeeHandler.GetByID)
		employees.GET("/:id/machines", employeeHandler.Machines)

		admin := employees.Group("", middleware.AdminOnly())
		{
			admin.POST("/", employeeHandler.Create)
			admin.GET("/", employeeHandler.GetAll)
			admin.PUT("/:id", employeeHandler.Update)
			admin.DELETE("/:id", employeeHandler.Delete)
		}
	}

	// DEPARTMENTS
	departments := r.Group("/departments")
	{
		departments.GET("/", departmentHandler.GetAll)
		departments.GET("/:id", departmentHandler.GetByID)
		departments.GET("/:id/employees", departmentHandler.Employees)
		departments.GET("/:id/tasks", departmentHandler.Tasks)

		admin := departments.Group("", middleware.AdminOnly())
		{
			admin.POST("/", departmentHandler.Create)
			admin.PUT("/:id", departmentHandler.Update)
			admin.DELETE("/:id", departmentHandler.Delete)
		}
	}

	// MACHINES
	machines := r.Group("/machines")
	{
		machines.GET("/", machineHandler.GetAll)
		machines.GET("/:id", machineHandler.GetByID)

		admin := machines.Group("", middleware.AdminOnly())
		{
			admin.POST("/", machineHandler.Create)
			admin.PUT("/:id", machineHandler.Update)
			admin.DELETE("/:id", machineHandler.Delete)
		}
	}

	// DASHBOARD
	dashboard := r.Group("/dashboard")
	{
		dashboard.GET("/employees/:id", dashboardHandler.EmployeeStats)

		admin := dashboard.Group("", middleware.AdminOnly())
		{
			admin.GET("/summary", dashboardHandler.Summary)
			admin.GET("/recent", dashboardHandler.Recent)
			admin.GET("/due-soon", dashboardHandler.DueSoon)
			admin.GET("/overdue", dashboardHandler.Overdue)
		}
	}

	// REPORTS (admin)
	reports := r.Group("/reports", middleware.AdminOnly())
	{
		reports.GET("/departments/:id/tasks", reportHandler.DepartmentTasks)
	}

	return r
}
