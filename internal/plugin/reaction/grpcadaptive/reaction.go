package grpcadaptive

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/mapping"
)

var deliverResultsDesc = grpc.StreamDesc{
	StreamName:    "DeliverResults",
	ClientStreams: true,
}

// Reaction streams each result delta to a gRPC endpoint, no faster than the
// configured rate limit.
type Reaction struct {
	id   string
	addr string

	limiter *rate.Limiter
	conn    *grpc.ClientConn
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(id, addr string, ratePerSecond float64, burst int) *Reaction {
	return &Reaction{id: id, addr: addr, limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst)}
}

func (r *Reaction) ID() string   { return r.id }
func (r *Reaction) Kind() string { return string(config.ReactionGrpcAdaptive) }
func (r *Reaction) Properties() map[string]any {
	return map[string]any{"addr": r.addr, "rate_limit": r.limiter.Limit()}
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
				if err := r.limiter.Wait(runCtx); err != nil {
					return
				}
				_ = stream.SendMsg(deltaToStruct(d))
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
	s, err := structpb.NewStruct(map[string]any{"query_id": d.QueryID, "seq": d.Seq, "payload": payload})
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
	rps, err := mapping.ResolveParam(r, dto.Params, "rate_per_second", strconv.Atoi, 10)
	if err != nil {
		return config.ReactionConfig{}, nil, err
	}
	burst, err := mapping.ResolveParam(r, dto.Params, "burst", strconv.Atoi, rps)
	if err != nil {
		return config.ReactionConfig{}, nil, err
	}

	domainCfg := config.ReactionConfig{
		ID: dto.ID, Kind: config.ReactionGrpcAdaptive, Queries: dto.Queries, AutoStart: dto.AutoStart,
		Params: map[string]any{"addr": addr, "rate_per_second": rps, "burst": burst},
	}
	return domainCfg, New(dto.ID, addr, float64(rps), burst), nil
}
