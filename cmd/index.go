package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/docnav/docnav/internal/rpc"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Print a site's alphabetized identifier index",
	Example: `  docnav index --page 0
  docnav index --all
  docnav index --pager`,
	Args: cobra.NoArgs,
	Run:  runIndex,
}

var (
	indexSite    string
	indexPage    int
	indexPerPage int
	indexAll     bool
	indexPager   bool
)

func init() {
	indexCmd.Flags().StringVar(&indexSite, "site", "", "site name (defaults to the latest scan)")
	indexCmd.Flags().IntVar(&indexPage, "page", 0, "panel page to print (zero-based)")
	indexCmd.Flags().IntVar(&indexPerPage, "per-page", 0, "entries per panel page (defaults to config)")
	indexCmd.Flags().BoolVar(&indexAll, "all", false, "print every entry")
	indexCmd.Flags().BoolVar(&indexPager, "pager", false, "print the flat pager array instead of entries")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) {
	client, err := connectDaemon()
	if err != nil {
		log.Fatalf("failed to connect to daemon: %v", err)
	}

	page := indexPage
	if indexAll {
		page = -1
	}

	resp, err := client.Index(context.Background(), rpc.IndexRequest{
		Site:    indexSite,
		Page:    page,
		PerPage: indexPerPage,
	})
	if err != nil {
		log.Fatalf("index failed: %v", err)
	}

	if indexPager {
		for _, e := range resp.Pager {
			fmt.Println(e)
		}
		return
	}

	for _, e := range resp.Entries {
		fmt.Println(e)
	}
	if !indexAll {
		fmt.Printf("-- page %d of %d (%d entries total)\n", indexPage, resp.PanelPages, resp.Total)
	}
}
