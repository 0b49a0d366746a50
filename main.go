package main

import (
	"os"

	"github.com/CSharon27/Resume-Evalution-System/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine; the process environment is used as is.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
