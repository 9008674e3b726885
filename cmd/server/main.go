package main

import "workdesk/internal/app"

// @title           Workdesk API
// @version         1.0
// @description     Task management backend: recurring task templates, assignment fan-out and employee workload tracking.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	app.Run()
}
