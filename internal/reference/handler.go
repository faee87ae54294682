package reference

import (
	"context"
	"log/slog"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"lorehub/internal/feed"
	"lorehub/internal/filter"
	"lorehub/internal/logging"
	"lorehub/internal/schema"
	"lorehub/pkg/models"
)

// Loader supplies the records of a kind. *catalog.Catalog implements it.
type Loader interface {
	Records(ctx context.Context, kind models.Kind) []filter.Record
}

type Handler struct {
	Loader    Loader
	Feed      feed.Publisher
	SchemaDir string
	logger    *slog.Logger
}

func NewHandler(loader Loader, pub feed.Publisher, schemaDir string, logger *slog.Logger) *Handler {
	logger = logging.Default(logger)
	if pub == nil {
		pub = feed.Nop{}
	}
	return &Handler{
		Loader:    loader,
		Feed:      pub,
		SchemaDir: schemaDir,
		logger:    logger.With("component", "reference"),
	}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.root)
	r.GET("/monsters", h.listMonsters)         // GET /monsters?type=&cr=&size=...
	r.GET("/monsters/fields", h.monsterFields) // GET /monsters/fields
	r.GET("/monsters/match", h.matchMonsters)  // GET /monsters/match?name=Goblin
	r.GET("/spells", h.listSpells)             // GET /spells?level=&ritual=...
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Local 5eTools API"})
}

func (h *Handler) listMonsters(c *gin.Context) {
	var q filter.MonsterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query: " + err.Error()})
		return
	}

	records := h.Loader.Records(c.Request.Context(), models.KindMonster)
	m := filter.MonsterMatcher(q)
	out := m.Apply(records)

	h.publish(c, feed.EventMonsters, m.Names(), len(out), len(records))
	c.JSON(http.StatusOK, gin.H{models.KindMonster.ResponseKey(): out})
}

func (h *Handler) listSpells(c *gin.Context) {
	var q filter.SpellQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query: " + err.Error()})
		return
	}

	records := h.Loader.Records(c.Request.Context(), models.KindSpell)
	m := filter.SpellMatcher(q)
	out := m.Apply(records)

	h.publish(c, feed.EventSpells, m.Names(), len(out), len(records))
	c.JSON(http.StatusOK, gin.H{models.KindSpell.ResponseKey(): out})
}

func (h *Handler) monsterFields(c *gin.Context) {
	allowed, ok := h.allowlist(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"fields": schema.Sorted(allowed)})
}

// matchMonsters is the older generic mode: every query parameter naming an
// allowlisted schema field must equal the record's string value.
func (h *Handler) matchMonsters(c *gin.Context) {
	allowed, ok := h.allowlist(c)
	if !ok {
		return
	}

	params := flatten(c)
	records := h.Loader.Records(c.Request.Context(), models.KindMonster)
	out := schema.FilterFields(records, params, allowed)

	var used []string
	for k := range params {
		if _, ok := allowed[k]; ok {
			used = append(used, k)
		}
	}
	sort.Strings(used)

	h.publish(c, feed.EventMatch, used, len(out), len(records))
	c.JSON(http.StatusOK, gin.H{models.KindMonster.ResponseKey(): out})
}

func (h *Handler) allowlist(c *gin.Context) (map[string]struct{}, bool) {
	doc, err := schema.Load(h.SchemaDir, schema.MonsterSchemaFile)
	if err != nil {
		h.logger.Error("schema unavailable", "dir", h.SchemaDir, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "schema unavailable"})
		return nil, false
	}
	return schema.AllowedFields(doc), true
}

func (h *Handler) publish(c *gin.Context, typ string, predicates []string, matched, total int) {
	h.logger.Debug("filter pass",
		"type", typ,
		"request_id", RequestIDFrom(c),
		"predicates", predicates,
		"matched", matched,
		"total", total,
	)
	h.Feed.Publish(feed.QueryEvent{
		Type:       typ,
		RequestID:  RequestIDFrom(c),
		Transport:  "http",
		Params:     flatten(c),
		Predicates: predicates,
		Matched:    matched,
		Total:      total,
	})
}

// flatten keeps the first value of each query parameter.
func flatten(c *gin.Context) map[string]string {
	values := c.Request.URL.Query()
	out := make(map[string]string, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}
