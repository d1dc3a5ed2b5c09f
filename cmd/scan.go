package cmd

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/docnav/docnav/internal/rpc"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan <site-dir>",
	Short: "Scan a generated documentation site",
	Long: `Parse every HTML page under the site directory, store the scan, build
the navigation, hierarchy and index data, and update the search index.`,
	Example: `  docnav scan ./copads-docs
  docnav scan --name copads /srv/docs/copads/html`,
	Args: cobra.ExactArgs(1),
	Run:  runScan,
}

var scanName string

func init() {
	scanCmd.Flags().StringVar(&scanName, "name", "", "site name (defaults to the directory name)")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) {
	root, err := filepath.Abs(args[0])
	if err != nil {
		log.Fatalf("resolving site directory: %v", err)
	}

	client, err := connectDaemon()
	if err != nil {
		log.Fatalf("failed to connect to daemon: %v", err)
	}

	result, err := client.Scan(context.Background(), rpc.ScanRequest{
		Root: root,
		Name: scanName,
	}, func(msg string) {
		fmt.Printf("  %s\n", msg)
	})
	if err != nil {
		log.Fatalf("scan failed: %v", err)
	}
	if result.Error != "" {
		log.Fatalf("scan failed: %s", result.Error)
	}

	fmt.Printf("  %s: %d pages, %d anchors, %d classes, %d index entries\n",
		result.Site, result.Pages, result.Anchors, result.Classes, result.Entries)
	if result.Problems > 0 {
		fmt.Printf("  %d validation problem(s); run `docnav validate` for details\n", result.Problems)
	}
}
