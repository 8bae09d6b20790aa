package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/mapping"
	"github.com/drasi-project/drasi-server/internal/query"
)

// serviceDesc describes a single client-streaming RPC, StreamEvents,
// accepting a stream of structpb.Struct change-event messages and
// returning one emptypb.Empty once the client closes its send side.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: "drasi.ChangeIngest",
	HandlerType: (*any)(nil),
	Streams: []grpc.StreamDesc{
		{StreamName: "StreamEvents", Handler: streamEventsHandler, ClientStreams: true},
	},
	Metadata: "internal/plugin/source/grpc/source.go",
}

func streamEventsHandler(srv any, stream grpc.ServerStream) error {
	s := srv.(*ingestServer)
	for {
		var msg structpb.Struct
		if err := stream.RecvMsg(&msg); err != nil {
			if err.Error() == "EOF" {
				return stream.SendMsg(&emptypb.Empty{})
			}
			return err
		}

		row := structToRow(&msg)
		select {
		case s.sink <- component.ChangeEvent{Payload: row}:
		case <-stream.Context().Done():
			return stream.Context().Err()
		}
	}
}

func structToRow(s *structpb.Struct) query.Row {
	m := s.AsMap()
	op, _ := m["op"].(string)
	id, _ := m["id"].(string)

	var labels []string
	if raw, ok := m["labels"].([]any); ok {
		for _, l := range raw {
			if str, ok := l.(string); ok {
				labels = append(labels, str)
			}
		}
	}
	props, _ := m["properties"].(map[string]any)
	return query.Row{Op: query.Op(op), ID: id, Labels: labels, Properties: props}
}

type ingestServer struct{ sink chan<- component.ChangeEvent }

// Source runs a gRPC server exposing the StreamEvents RPC.
type Source struct {
	id   string
	addr string

	grpcServer *grpc.Server
}

func New(id, addr string) *Source {
	return &Source{id: id, addr: addr}
}

func (s *Source) ID() string   { return s.id }
func (s *Source) Kind() string { return string(config.SourceGrpc) }
func (s *Source) Properties() map[string]any {
	return map[string]any{"addr": s.addr}
}
func (s *Source) BootstrapProvider() (component.BootstrapProvider, bool) { return nil, false }

func (s *Source) Start(ctx context.Context, sink chan<- component.ChangeEvent) error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.grpcServer = grpc.NewServer()
	s.grpcServer.RegisterService(&serviceDesc, &ingestServer{sink: sink})

	go func() { _ = s.grpcServer.Serve(lis) }()
	return nil
}

func (s *Source) Stop(ctx context.Context) error {
	if s.grpcServer == nil {
		return nil
	}
	s.grpcServer.GracefulStop()
	return nil
}

func Factory(r *mapping.Resolver, dto config.SourceConfigDTO) (config.SourceConfig, component.Source, error) {
	addr, err := mapping.ResolveParam(r, dto.Params, "addr", identity, ":0")
	if err != nil {
		return config.SourceConfig{}, nil, err
	}
	domainCfg := config.SourceConfig{ID: dto.ID, Kind: config.SourceGrpc, AutoStart: dto.AutoStart, Params: map[string]any{"addr": addr}}
	return domainCfg, New(dto.ID, addr), nil
}

func identity(s string) (string, error) { return s, nil }
