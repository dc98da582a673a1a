package main

import (
	"rasgeo/cmd/rasgeo/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// Missing .env is fine; the environment still applies.
	_ = godotenv.Load()
	cmd.Execute()
}
