package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"lorehub/internal/filter"
	"lorehub/internal/logging"
	"lorehub/pkg/models"
)

// Source is implemented by each place records can come from (data files,
// the sqlite import). A source returns nothing for kinds it does not hold.
type Source interface {
	Name() string
	Load(ctx context.Context, kind models.Kind) ([]filter.Record, error)
}

// Catalog concatenates the records of its sources, in source order.
type Catalog struct {
	sources []Source
	logger  *slog.Logger
}

func New(logger *slog.Logger, sources ...Source) *Catalog {
	logger = logging.Default(logger)
	return &Catalog{
		sources: sources,
		logger:  logger.With("component", "catalog"),
	}
}

// Records loads every record of kind. A failing source is logged and
// contributes nothing; one broken file should not empty the whole catalog.
func (c *Catalog) Records(ctx context.Context, kind models.Kind) []filter.Record {
	var out []filter.Record
	for _, src := range c.sources {
		if ctx.Err() != nil {
			c.logger.Warn("load cancelled", "kind", kind, "error", ctx.Err())
			break
		}
		recs, err := src.Load(ctx, kind)
		if err != nil {
			c.logger.Error("source failed, using empty set", "source", src.Name(), "kind", kind, "error", err)
			continue
		}
		c.logger.Debug("source loaded", "source", src.Name(), "kind", kind, "records", len(recs))
		out = append(out, recs...)
	}
	if out == nil {
		out = []filter.Record{}
	}
	return out
}

// SourceNames lists the configured sources in order.
func (c *Catalog) SourceNames() []string {
	names := make([]string, len(c.sources))
	for i, s := range c.sources {
		names[i] = s.Name()
	}
	return names
}

// Checker is implemented by sources that can report whether they are
// currently usable.
type Checker interface {
	Check(ctx context.Context) error
}

// Check returns the first failing source check.
func (c *Catalog) Check(ctx context.Context) error {
	for _, src := range c.sources {
		ch, ok := src.(Checker)
		if !ok {
			continue
		}
		if err := ch.Check(ctx); err != nil {
			return fmt.Errorf("%s: %w", src.Name(), err)
		}
	}
	return nil
}
