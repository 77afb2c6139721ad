package main

import (
	"github.com/joho/godotenv"

	"github.com/lcastelli/motdepasse-server/internal/cli"
)

func main() {
	// Best effort; a missing .env is fine
	_ = godotenv.Load()

	cli.Execute()
}
