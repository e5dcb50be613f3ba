package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/sant0-9/carousel/internal/cli"
)

func main() {
	// Load .env file (ignore error if not exists)
	_ = godotenv.Load()

	if err := cli.Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
