package main

import (
	"log"
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.SetFlags(0)
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}
