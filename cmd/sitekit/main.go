package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	// A missing .env is fine; env vars may come from the shell.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "render":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: sitekit render <route>")
			os.Exit(1)
		}
		if err := runRender(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "seed":
		if err := runSeed(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "routes":
		if err := runRoutes(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("sitekit %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`sitekit - a single-site content management core

Usage:
  sitekit <command> [arguments]

Commands:
  seed            Create demo pages and posts in the site database
  render <route>  Resolve a route and print its view
  routes          List the registered route keys
  version         Print the sitekit version
  help            Show this help message

Environment:
  SITE_NAME, SITE_URL, SITE_DESCRIPTION, SITE_AUTHOR
  SITE_DB            SQLite path (default data/site.db)
  SESSION_SECRET     Required: signs the persisted session
  ADMIN_USER, ADMIN_PASSWORD

Examples:
  sitekit seed
  sitekit render post/hello-world
  sitekit render "search?q=hello"`)
}
