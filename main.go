package main

import "taskdesk/internal/app"

// @title           Taskdesk API
// @version         1.0
// @description     Task management service with role-based access and an immutable audit history.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	app.Run()
}
