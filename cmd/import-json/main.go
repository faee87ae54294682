package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lorehub/internal/catalog"
	"lorehub/internal/logging"
	"lorehub/pkg/database"
	"lorehub/pkg/models"
	"lorehub/pkg/utils"
)

// import-json loads the configured data files into the sqlite store that
// LOREHUB_SOURCE=sqlite serves from.
func main() {
	cmd := &cobra.Command{
		Use:          "import-json",
		Short:        "Import monster and spell data files into sqlite",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := utils.LoadConfig()
			if err != nil {
				return err
			}
			if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
				cfg.DataDir = dir
			}
			if path, _ := cmd.Flags().GetString("db"); path != "" {
				cfg.DBPath = path
			}
			timeout, _ := cmd.Flags().GetDuration("timeout")

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return run(ctx, cmd, cfg)
		},
	}
	cmd.Flags().String("data-dir", "", "directory holding the data files (default from config)")
	cmd.Flags().String("db", "", "sqlite path (default from config)")
	cmd.Flags().Duration("timeout", 60*time.Second, "import timeout")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cobra.Command, cfg utils.Config) error {
	logger := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)

	dbCfg := database.ConfigFor(cfg.DBPath)
	db, err := database.Open(dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("db migrate: %w", err)
	}

	src := catalog.NewSQLiteSource(db)
	files := map[models.Kind][]string{
		models.KindMonster: cfg.MonsterFiles,
		models.KindSpell:   cfg.SpellFiles,
	}
	for _, kind := range models.Kinds {
		imported, err := src.ImportFiles(ctx, cfg.DataDir, kind, files[kind])
		for _, im := range imported {
			logger.Info("imported", "kind", im.Kind, "source", im.Source, "records", im.Records)
		}
		if err != nil {
			return fmt.Errorf("import %s: %w", kind, err)
		}
	}

	for _, kind := range models.Kinds {
		stored, err := src.Stored(ctx, kind)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records in %s\n", kind.ResponseKey(), len(stored), dbCfg.Path)
	}
	return nil
}
