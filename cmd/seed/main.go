// Package main provides a CLI for seeding a local database with demo data
// through the real domain services.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/darajahq/daraja/internal/platform/config"
	"github.com/darajahq/daraja/internal/seed"
)

func main() {
	cfg := seed.DefaultConfig()
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the sqlite database")
	flag.BoolVar(&cfg.Verbose, "v", false, "verbose output")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	result, err := seed.Run(ctx, cfg)
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	fmt.Printf("Seeded %s\n", cfg.DBPath)
	fmt.Printf("  partners:     %d\n", result.Partners)
	fmt.Printf("  programs:     %d\n", result.Programs)
	fmt.Printf("  institutions: %d\n", result.Institutions)
	fmt.Printf("  teachers:     %d\n", result.Teachers)
	fmt.Printf("  coordinators: %d\n", result.Coordinators)
	fmt.Printf("  invitations:  %d\n", result.Invitations)
	fmt.Printf("  projects:     %d\n", result.Projects)
	fmt.Printf("\nHost partner id: %s\n", result.HostPartnerID)
}
