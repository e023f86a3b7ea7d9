/*
Copyright © 2025 Euroteck-developer
*/
package main

import (
	"log"

	"github.com/Euroteck-developer/Reminder-App/cmd"
	"github.com/joho/godotenv"
)

func main() {
	cmd.Execute()
}

func init() {
	// The environment alone is enough in containers.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded:", err)
	}
}
