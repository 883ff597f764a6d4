package main

import (
	"fmt"
	"os"

	"atc-transcribe/cmd/atc/cmd"
	"atc-transcribe/internal/config"
)

func main() {
	// A missing .env is fine; a broken one is worth a warning but not an exit
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Configuration Warning: %v\n", err)
	}

	cmd.Execute()
}
