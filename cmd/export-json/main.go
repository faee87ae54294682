package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"lorehub/internal/catalog"
	"lorehub/pkg/database"
	"lorehub/pkg/models"
	"lorehub/pkg/utils"
)

// export-json writes the sqlite store back out as data files, one per kind,
// in the same shape import-json reads.
func main() {
	cmd := &cobra.Command{
		Use:          "export-json",
		Short:        "Export stored monsters and spells as data files",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := utils.LoadConfig()
			if err != nil {
				return err
			}
			if path, _ := cmd.Flags().GetString("db"); path != "" {
				cfg.DBPath = path
			}
			outDir, _ := cmd.Flags().GetString("out")
			kindName, _ := cmd.Flags().GetString("kind")

			kinds := models.Kinds
			if kindName != "" {
				k, ok := models.ParseKind(kindName)
				if !ok {
					return fmt.Errorf("unknown kind %q", kindName)
				}
				kinds = []models.Kind{k}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			return run(ctx, cmd, cfg, outDir, kinds)
		},
	}
	cmd.Flags().String("out", "export", "output directory")
	cmd.Flags().String("kind", "", "export only this kind (monster or spell)")
	cmd.Flags().String("db", "", "sqlite path (default from config)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cobra.Command, cfg utils.Config, outDir string, kinds []models.Kind) error {
	db, err := database.Open(database.ConfigFor(cfg.DBPath))
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("db migrate: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", outDir, err)
	}

	src := catalog.NewSQLiteSource(db)
	for _, kind := range kinds {
		recs, err := src.Load(ctx, kind)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, kind.ResponseKey()+".json")
		if err := os.WriteFile(path, catalog.Encode(kind, recs), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d %s to %s\n", len(recs), kind.ResponseKey(), path)
	}
	return nil
}
