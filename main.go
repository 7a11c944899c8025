package main

import "github.com/teamerhq/teamer/cmd"

// @title Teamer API
// @version 1.0
// @description Football fields, teams and games.
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	cmd.Execute()
}
