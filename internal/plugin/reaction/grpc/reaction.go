package grpc

import (
	"context"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/mapping"
)

// deliverResultsDesc describes the client-streaming RPC a Grpc reaction
// calls: one structpb.Struct message per result delta, matching the wire
// shape the Grpc source's StreamEvents RPC accepts on the ingest side.
var deliverResultsDesc = grpc.StreamDesc{
	StreamName:    "DeliverResults",
	ClientStreams: true,
}

// Reaction streams each result delta as a structpb.Struct to a gRPC
// endpoint over a single long-lived client stream.
type Reaction struct {
	id   string
	addr string

	conn   *grpc.ClientConn
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(id, addr string) *Reaction {
	return &Reaction{id: id, addr: addr}
}

func (r *Reaction) ID() string   { return r.id }
func (r *Reaction) Kind() string { return string(config.ReactionGrpc) }
func (r *Reaction) Properties() map[string]any {
	return map[string]any{"addr": r.addr}
}

func (r *Reaction) Start(ctx context.Context, deltas <-chan component.ResultDelta) error {
	conn, err := grpc.NewClient(r.addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return err
	}
	r.conn = conn

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	stream, err := conn.NewStream(runCtx, &deliverResultsDesc, "/drasi.ReactionDelivery/DeliverResults")
	if err != nil {
		conn.Close()
		return err
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer stream.CloseSend()
		for {
			select {
			case d, ok := <-deltas:
				if !ok {
					return
				}
				msg := deltaToStruct(d)
				_ = stream.SendMsg(msg)
			case <-runCtx.Done():
				return
			}
		}
	}()
	return nil
}

func deltaToStruct(d component.ResultDelta) *structpb.Struct {
	payload, ok := d.Payload.(map[string]any)
	if !ok {
		payload = map[string]any{"value": d.Payload}
	}
	s, err := structpb.NewStruct(map[string]any{
		"query_id": d.QueryID,
		"seq":      d.Seq,
		"payload":  payload,
	})
	if err != nil {
		return &structpb.Struct{}
	}
	return s
}

func (r *Reaction) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

func identity(s string) (string, error) { return s, nil }

func Factory(r *mapping.Resolver, dto config.ReactionConfigDTO) (config.ReactionConfig, component.Reaction, error) {
	addr, err := mapping.RequireParam(r, dto.Params, "addr", identity)
	if err != nil {
		return config.ReactionConfig{}, nil, err
	}
	domainCfg := config.ReactionConfig{
		ID: dto.ID, Kind: config.ReactionGrpc, Queries: dto.Queries, AutoStart: dto.AutoStart,
		Params: map[string]any{"addr": addr},
	}
	return domainCfg, New(dto.ID, addr), nil
}
