package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/shiftworks/recon-api-go/pkg/auth"
)

func main() {
	// Load .env from project root
	_ = godotenv.Load("../.env")

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run keygen.go <userID>")
		os.Exit(1)
	}

	userID := os.Args[1]
	secret := os.Getenv("API_MASTER_SECRET")
	if secret == "" {
		fmt.Println("Error: API_MASTER_SECRET not found in .env")
		os.Exit(1)
	}

	a := auth.New("", secret)
	apiKey := a.GenerateHMACKey(userID)
	fmt.Printf("Generated Key for %s:\n%s\n", userID, apiKey)
}
