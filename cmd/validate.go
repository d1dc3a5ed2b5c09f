package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/docnav/docnav/internal/rpc"
	"github.com/docnav/docnav/internal/validate"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [literal-file]",
	Short: "Check a scanned site or a tree literal file for problems",
	Long: `With no argument, validates the stored scan: entry shape, dangling
hrefs and anchors, inheritance cycles and index ordering. With a file
argument, validates a tree literal (JSON or the JS-wrapped form) against
the tree schema without needing a scan.`,
	Example: `  docnav validate
  docnav validate --site copads
  docnav validate nav-data.js`,
	Args: cobra.MaximumNArgs(1),
	Run:  runValidate,
}

var validateSite string

func init() {
	validateCmd.Flags().StringVar(&validateSite, "site", "", "site name (defaults to the latest scan)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) {
	if len(args) == 1 {
		validateLiteralFile(args[0])
		return
	}

	client, err := connectDaemon()
	if err != nil {
		log.Fatalf("failed to connect to daemon: %v", err)
	}

	resp, err := client.Validate(context.Background(), rpc.ValidateRequest{Site: validateSite})
	if err != nil {
		log.Fatalf("validate failed: %v", err)
	}

	if len(resp.Problems) == 0 {
		fmt.Printf("%s: ok\n", resp.Site)
		return
	}
	for _, p := range resp.Problems {
		fmt.Printf("%s: %s: %s\n", p.Kind, p.Where, p.Message)
	}
	os.Exit(1)
}

func validateLiteralFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("reading literal file: %v", err)
	}

	problems := validate.CheckLiteral(path, data, nil)
	if len(problems) == 0 {
		fmt.Printf("%s: ok\n", path)
		return
	}
	for _, p := range problems {
		fmt.Println(p.String())
	}
	os.Exit(1)
}
