// Command listjson rewrites a line-delimited text file as a JSON array of its trimmed lines.
//
//	listjson <file>
package main

import (
	"fmt"
	"os"

	"expdata/internal/logging"
	"expdata/internal/service"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "listjson <file>",
	Short:         "Replace a text file with the JSON array of its lines",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runListJSON,
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runListJSON(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	return service.NewListService(logger).ConvertFile(args[0])
}
