package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

const (
	defaultBaseURL  = "http://localhost:8000"
	defaultFeedAddr = "127.0.0.1:7070"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lorehub",
		Short:         "Query monster and spell reference data",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().String("api", defaultBaseURL, "HTTP API base URL")
	root.PersistentFlags().String("grpc", "", "gRPC address; when set, monsters and spells go over gRPC")
	root.PersistentFlags().StringP("output", "o", "names", "output format: names or json")
	root.PersistentFlags().Duration("timeout", 15*time.Second, "request timeout")

	root.AddCommand(
		newMonstersCmd(),
		newSpellsCmd(),
		newFieldsCmd(),
		newMatchCmd(),
		newFeedCmd(),
	)
	return root
}
