package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"sheet-storefront/cmd"
)

func main() {
	// Load .env file in development (ignores error if file doesn't exist)
	// In production, variables should be set directly
	if os.Getenv("ENV") != "production" {
		// Use Overload to ensure .env values override system environment variables
		envPath := ".env"
		if err := godotenv.Overload(envPath); err != nil {
			log.Printf("Warning: .env file not found at %s, using system environment variables", envPath)
		} else {
			log.Printf("Successfully loaded environment variables from %s (overriding system variables)", envPath)
		}
	}

	cmd.Execute()
}
