package grpcserver

import (
	"context"

	"google.golang.org/grpc"

	"lorehub/internal/filter"
)

const (
	ServiceName = "lorehub.v1.ReferenceService"

	FilterMonstersMethod = "/" + ServiceName + "/FilterMonsters"
	FilterSpellsMethod   = "/" + ServiceName + "/FilterSpells"
)

type MonsterRequest struct {
	Query filter.MonsterQuery `json:"query"`
}

type SpellRequest struct {
	Query filter.SpellQuery `json:"query"`
}

type RecordsResponse struct {
	Records []filter.Record `json:"records"`
	Matched int             `json:"matched"`
	Total   int             `json:"total"`
}

// ReferenceServer is the server API for lorehub.v1.ReferenceService.
type ReferenceServer interface {
	FilterMonsters(context.Context, *MonsterRequest) (*RecordsResponse, error)
	FilterSpells(context.Context, *SpellRequest) (*RecordsResponse, error)
}

var ReferenceServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ReferenceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "FilterMonsters", Handler: filterMonstersHandler},
		{MethodName: "FilterSpells", Handler: filterSpellsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "lorehub/v1/reference",
}

func RegisterReferenceServer(s grpc.ServiceRegistrar, srv ReferenceServer) {
	s.RegisterService(&ReferenceServiceDesc, srv)
}

func filterMonstersHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(MonsterRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReferenceServer).FilterMonsters(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FilterMonstersMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReferenceServer).FilterMonsters(ctx, req.(*MonsterRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func filterSpellsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SpellRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReferenceServer).FilterSpells(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FilterSpellsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReferenceServer).FilterSpells(ctx, req.(*SpellRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls ReferenceService with the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) FilterMonsters(ctx context.Context, q filter.MonsterQuery, opts ...grpc.CallOption) (*RecordsResponse, error) {
	out := new(RecordsResponse)
	if err := c.cc.Invoke(ctx, FilterMonstersMethod, &MonsterRequest{Query: q}, out, c.callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FilterSpells(ctx context.Context, q filter.SpellQuery, opts ...grpc.CallOption) (*RecordsResponse, error) {
	out := new(RecordsResponse)
	if err := c.cc.Invoke(ctx, FilterSpellsMethod, &SpellRequest{Query: q}, out, c.callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) callOptions(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
}
