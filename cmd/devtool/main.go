package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "seed":
		runSeed()
	case "draw":
		runDraw(os.Args[2:])
	case "balance":
		runBalance(os.Args[2:])
	case "integrity":
		runIntegrity()
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: devtool <command> [args...]")
	fmt.Println("Commands:")
	fmt.Println("  seed       Insert a development gacha with a small item pool")
	fmt.Println("  draw       Execute a draw end to end against the dev collaborators")
	fmt.Println("  balance    Show a user's push medal balances")
	fmt.Println("  integrity  Run a full ledger integrity check")
}
