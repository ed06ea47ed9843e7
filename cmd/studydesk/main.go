package main

import (
	"github.com/joho/godotenv"

	"github.com/studydesk/studydesk-cli/internal/adapters/driving/cli"
)

func main() {
	// Optional .env for API keys; absence is fine.
	_ = godotenv.Load()

	cli.Execute()
}
