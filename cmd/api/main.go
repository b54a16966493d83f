package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "event-ticket",
		Short:         "Event ticket issuance and check-in service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config-dir", "configs", "directory holding config.<APP_ENV>.yaml")
	root.PersistentFlags().String("storage", "postgres", "storage backend: postgres or memory")

	root.AddCommand(newServeCmd(), newMigrateCmd(), newSeedCmd())
	return root
}
