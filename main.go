package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Aristvodolaz/storage-mobile-sub000/internal/config"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	command := os.Args[1]

	switch command {
	case "sync-now":
		if err := runSyncNow(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "purge":
		if err := runPurge(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// runSyncNow performs one reconciliation pass and exits.
func runSyncNow() error {
	cfg := config.NewConfig()
	engine, err := entrypoint.BuildEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.DB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	return engine.Scheduler.RunPass(ctx)
}

// runPurge removes synced queue records and expired history rows.
func runPurge() error {
	cfg := config.NewConfig()
	engine, err := entrypoint.BuildEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.DB.Close()

	placementsPurged, err := engine.PlacementDB.PurgeSynced()
	if err != nil {
		return err
	}
	adjustmentsPurged, err := engine.AdjustmentDB.PurgeSynced()
	if err != nil {
		return err
	}
	historyPurged, err := engine.PlacementDB.PurgeConfirmedBefore(time.Now().Add(-cfg.Sync.Retention))
	if err != nil {
		return err
	}

	fmt.Printf("Purged %d placements, %d adjustments, %d history rows\n",
		placementsPurged, adjustmentsPurged, historyPurged)
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command>\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve      Start the sync engine and HTTP server (default)\n")
	fmt.Fprintf(os.Stderr, "  sync-now   Run one reconciliation pass and exit\n")
	fmt.Fprintf(os.Stderr, "  purge      Remove synced queue records and expired history\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
