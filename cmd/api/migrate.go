package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if storage, _ := cmd.Flags().GetString("storage"); storage != storagePostgres {
				return errors.New("migrate requires --storage=postgres")
			}

			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.migrate(cmd.Context())
		},
	}
}
