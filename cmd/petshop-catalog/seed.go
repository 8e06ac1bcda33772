package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/petshop-catalog-service/internal/catalog"
	"github.com/fairyhunter13/petshop-catalog-service/internal/obs"
)

var seedCmd = &cobra.Command{
	Use:   "seed [file]",
	Short: "Load products from a YAML seed file into an empty store",
	Long: `Load products from a YAML document of the form {products: [...]}.
Every entry is validated like a create request. Nothing is inserted when
the store already holds products. The file defaults to SEED_FILE.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.SeedFile
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return fmt.Errorf("no seed file given and SEED_FILE is unset")
		}
		strictness, err := catalog.ParseStrictness(cfg.ValidationStrictness)
		if err != nil {
			return err
		}
		st, closeStore, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		n, err := seedFromFile(cmd.Context(), st, path, strictness)
		if err != nil {
			return err
		}
		obs.Logger.Info("catalog_seeded", "file", path, "inserted", n)
		fmt.Fprintf(cmd.OutOrStdout(), "inserted %d products\n", n)
		return nil
	},
}
