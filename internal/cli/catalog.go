package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rushteam/cocktailkit/core"
	"github.com/rushteam/cocktailkit/store"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			m, ok := s.stores.Cocktails.(store.Migrator)
			if !ok {
				fmt.Fprintf(a.stdout, "driver %s needs no migration\n", s.cfg.Database.Driver)
				return nil
			}
			if err := m.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "migrated")
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import cocktails from a JSON file (array of cocktails with ingredients)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			var cocktails []*core.Cocktail
			if err := json.Unmarshal(data, &cocktails); err != nil {
				return fmt.Errorf("parse json: %w", err)
			}

			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			w, ok := s.stores.Cocktails.(store.CatalogWriter)
			if !ok {
				return fmt.Errorf("driver %s: import: %w", s.cfg.Database.Driver, core.ErrStoreNotSupported)
			}
			if err := w.SaveCocktails(cmd.Context(), cocktails...); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "imported %d cocktails\n", len(cocktails))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
