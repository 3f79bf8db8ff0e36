package main

import (
	"github.com/joho/godotenv"

	"github.com/menupilot/menupilot/cmd"
)

func main() {
	// Credentials may live in a local .env during development.
	_ = godotenv.Load()

	cmd.Execute()
}
