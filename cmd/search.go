package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/docnav/docnav/internal/rpc"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search scanned documentation",
	Example: `  docnav search "red-black tree"
  docnav search --site copads "NormalDistribution"
  docnav search --limit 5 matrix`,
	Args: cobra.ExactArgs(1),
	Run:  runSearch,
}

var (
	searchSite  string
	searchLimit int
)

func init() {
	searchCmd.Flags().StringVar(&searchSite, "site", "", "filter to one site")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "max results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	client, err := connectDaemon()
	if err != nil {
		log.Fatalf("failed to connect to daemon: %v", err)
	}

	resp, err := client.Search(context.Background(), rpc.SearchRequest{
		Query: args[0],
		Site:  searchSite,
		Limit: searchLimit,
	})
	if err != nil {
		log.Fatalf("search failed: %v", err)
	}

	if len(resp.Results) == 0 {
		fmt.Println("no results")
		return
	}

	for i, r := range resp.Results {
		fmt.Printf("%d. [%.2f] %s (%s) %s\n", i+1, r.Score, r.Label, r.Kind, r.URI)
		if r.Snippet != "" {
			fmt.Printf("   %s\n", r.Snippet)
		}
	}
}
