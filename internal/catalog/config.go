package catalog

import (
	"fmt"
	"log/slog"

	"lorehub/pkg/database"
	"lorehub/pkg/models"
	"lorehub/pkg/utils"
)

// FromConfig builds the catalog for the configured data source. The
// returned close func releases the database when the sqlite source is used.
func FromConfig(cfg utils.Config, logger *slog.Logger) (*Catalog, func() error, error) {
	switch cfg.Source {
	case utils.SourceSQLite:
		dbCfg := database.ConfigFor(cfg.DBPath)
		db, err := database.Open(dbCfg)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db migrate: %w", err)
		}
		return New(logger, NewSQLiteSource(db)), db.Close, nil

	default:
		var sources []Source
		sources = append(sources, FileSources(cfg.DataDir, models.KindMonster, cfg.MonsterFiles)...)
		sources = append(sources, FileSources(cfg.DataDir, models.KindSpell, cfg.SpellFiles)...)
		return New(logger, sources...), func() error { return nil }, nil
	}
}
