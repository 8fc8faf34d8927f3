package main

import (
	"log"
	"os"
	"property-map/internal"
)

func main() {
	application, err := internal.NewConsoleApp(os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to initialize console: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Console run failed: %v", err)
	}
}
