package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Delete every stored scan",
	Long: `Removes all stored scans: the database rows, the cached scan files,
the page text store and the search index documents. Sites must be
scanned again before the trees, index or search can be served.`,
	Run: runClearCache,
}

func init() {
	rootCmd.AddCommand(clearCacheCmd)
}

func runClearCache(cmd *cobra.Command, args []string) {
	client, err := connectDaemon()
	if err != nil {
		log.Fatalf("failed to connect to daemon: %v", err)
	}

	if err := client.ClearCache(context.Background()); err != nil {
		log.Fatalf("clear-cache failed: %v", err)
	}
	fmt.Println("stored scans cleared")
}
