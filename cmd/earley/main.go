package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:           "earley",
		Short:         "Earley parsing over grammar flow graphs",
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var path *string
			if logFile := os.Getenv("EARLEY_LOG_FILE"); logFile != "" {
				path = &logFile
			}
			commonlog.Configure(verbosity, path)
		},
	}
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newGraphCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newChartCmd())
	rootCmd.AddCommand(newLSPCmd())

	return rootCmd
}
