package grpcserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"lorehub/internal/feed"
	"lorehub/internal/filter"
	"lorehub/internal/logging"
	"lorehub/internal/reference"
	"lorehub/pkg/models"
)

// requestIDKey is the metadata key a caller may set; it mirrors the HTTP
// X-Request-ID header.
const requestIDKey = "x-request-id"

type Server struct {
	Loader reference.Loader
	Feed   feed.Publisher
	logger *slog.Logger
}

func NewServer(loader reference.Loader, pub feed.Publisher, logger *slog.Logger) *Server {
	logger = logging.Default(logger)
	if pub == nil {
		pub = feed.Nop{}
	}
	return &Server{Loader: loader, Feed: pub, logger: logger.With("component", "grpc")}
}

func (s *Server) FilterMonsters(ctx context.Context, req *MonsterRequest) (*RecordsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	records := s.Loader.Records(ctx, models.KindMonster)
	m := filter.MonsterMatcher(req.Query)
	out := m.Apply(records)

	s.publish(ctx, feed.EventMonsters, req.Query, m.Names(), len(out), len(records))
	return &RecordsResponse{Records: out, Matched: len(out), Total: len(records)}, nil
}

func (s *Server) FilterSpells(ctx context.Context, req *SpellRequest) (*RecordsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	if err := binding.Validator.ValidateStruct(&req.Query); err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid query: "+err.Error())
	}
	records := s.Loader.Records(ctx, models.KindSpell)
	m := filter.SpellMatcher(req.Query)
	out := m.Apply(records)

	s.publish(ctx, feed.EventSpells, req.Query, m.Names(), len(out), len(records))
	return &RecordsResponse{Records: out, Matched: len(out), Total: len(records)}, nil
}

func (s *Server) publish(ctx context.Context, typ string, query any, predicates []string, matched, total int) {
	id := requestID(ctx)
	s.logger.Debug("filter pass",
		"type", typ,
		"request_id", id,
		"predicates", predicates,
		"matched", matched,
		"total", total,
	)
	s.Feed.Publish(feed.QueryEvent{
		Type:       typ,
		RequestID:  id,
		Transport:  "grpc",
		Params:     queryParams(query),
		Predicates: predicates,
		Matched:    matched,
		Total:      total,
	})
}

func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(requestIDKey); len(ids) > 0 && ids[0] != "" && len(ids[0]) <= 128 {
			return ids[0]
		}
	}
	return uuid.NewString()
}

// queryParams renders the set fields of a query the way they would appear
// in an HTTP query string.
func queryParams(query any) map[string]string {
	b, err := json.Marshal(query)
	if err != nil {
		return nil
	}
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = fmt.Sprint(v)
	}
	return out
}

// UnaryLogger logs one line per call.
func UnaryLogger(logger *slog.Logger) grpc.UnaryServerInterceptor {
	logger = logging.Default(logger).With("component", "grpc")
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("call",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}
