package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/docnav/docnav/internal/navtree"
	"github.com/docnav/docnav/internal/rpc"
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print a site's navigation or class hierarchy tree",
	Example: `  docnav tree
  docnav tree --kind hierarchy
  docnav tree --site copads --js classTreeData
  docnav tree --plain`,
	Args: cobra.NoArgs,
	Run:  runTree,
}

var (
	treeSite  string
	treeKind  string
	treeJSVar string
	treePlain bool
)

func init() {
	treeCmd.Flags().StringVar(&treeSite, "site", "", "site name (defaults to the latest scan)")
	treeCmd.Flags().StringVar(&treeKind, "kind", rpc.TreeNav, `tree kind: "nav" or "hierarchy"`)
	treeCmd.Flags().StringVar(&treeJSVar, "js", "", "emit as a JS assignment to the named variable")
	treeCmd.Flags().BoolVar(&treePlain, "plain", false, "print an indented text outline instead of JSON")
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) {
	client, err := connectDaemon()
	if err != nil {
		log.Fatalf("failed to connect to daemon: %v", err)
	}

	resp, err := client.Tree(context.Background(), rpc.TreeRequest{
		Site: treeSite,
		Kind: treeKind,
	})
	if err != nil {
		log.Fatalf("tree failed: %v", err)
	}

	if treePlain {
		roots, err := navtree.Decode(resp.Tree)
		if err != nil {
			log.Fatalf("decoding tree: %v", err)
		}
		navtree.Walk(roots, func(n *navtree.Node, depth int) bool {
			link := n.Href
			if link == "" {
				link = "-"
			}
			fmt.Printf("%s%s (%s)\n", strings.Repeat("  ", depth), n.Label, link)
			return true
		})
		return
	}

	if treeJSVar != "" {
		roots, err := navtree.Decode(resp.Tree)
		if err != nil {
			log.Fatalf("decoding tree: %v", err)
		}
		out, err := navtree.EncodeJS(treeJSVar, roots)
		if err != nil {
			log.Fatalf("encoding tree: %v", err)
		}
		fmt.Print(string(out))
		return
	}

	fmt.Println(string(resp.Tree))
}
