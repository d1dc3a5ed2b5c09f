package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/docnav/docnav/internal/rpc"
	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <label>",
	Short: "Resolve a module or class name to its page",
	Example: `  docnav lookup RBTree
  docnav lookup --site copads matrix`,
	Args: cobra.ExactArgs(1),
	Run:  runLookup,
}

var lookupSite string

func init() {
	lookupCmd.Flags().StringVar(&lookupSite, "site", "", "site name (defaults to the latest scan)")
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) {
	client, err := connectDaemon()
	if err != nil {
		log.Fatalf("failed to connect to daemon: %v", err)
	}

	resp, err := client.Lookup(context.Background(), rpc.LookupRequest{
		Label: args[0],
		Site:  lookupSite,
	})
	if err != nil {
		log.Fatalf("lookup failed: %v", err)
	}

	if !resp.Found {
		fmt.Printf("%s: not found in site %s\n", resp.Label, resp.Site)
		return
	}
	if resp.Href == "" {
		fmt.Printf("%s: undocumented (external base type)\n", resp.Label)
		return
	}
	fmt.Printf("%s: %s\n", resp.Label, resp.Href)
}
