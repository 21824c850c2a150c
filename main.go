package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-authgate/payapproval/internal/bootstrap"
	"github.com/go-authgate/payapproval/internal/config"
	"github.com/go-authgate/payapproval/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		version.Print(os.Stdout)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "server":
		runServer()
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Usage: %s [OPTIONS] COMMAND\n\n", os.Args[0])
	fmt.Println("Payment approval API backed by Xero")
	fmt.Println("\nCommands:")
	fmt.Println("  server    Start the API server")
	fmt.Println("\nOptions:")
	fmt.Println("  -v, --version    Show version information")
	fmt.Println("  -h, --help       Show this help message")
}

func runServer() {
	log.Printf("Starting %s", version.Get())

	// graceful handles SIGINT/SIGTERM itself
	if err := bootstrap.Run(context.Background(), config.Load()); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
