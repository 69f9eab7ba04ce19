package grpcadapter

import (
	"context"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/aeromatch/internal/engine"
	"github.com/aeromatch/internal/obtypes"
	"github.com/aeromatch/internal/util"
)

func nowTimestamp() *timestamppb.Timestamp {
	return timestamppb.New(time.Now())
}

func quantityOf(v uint32) obtypes.Quantity {
	return obtypes.Quantity(v)
}

// TradingServer is the service interface this adapter implements. It
// plays the role a protoc-generated *_grpc.pb.go would normally define.
type TradingServer interface {
	SubmitOrder(context.Context, *OrderRequest) (*OrderResponse, error)
	CancelOrder(context.Context, *CancelRequest) (*CancelResponse, error)
	StreamTrades(*StreamTradesRequest, TradingStreamTradesServer) error
}

// TradingStreamTradesServer is the server-side handle for the streaming
// StreamTrades RPC.
type TradingStreamTradesServer interface {
	Send(*TradeEvent) error
	grpc.ServerStream
}

type tradingStreamTradesServer struct {
	grpc.ServerStream
}

func (x *tradingStreamTradesServer) Send(m *TradeEvent) error {
	return x.ServerStream.SendMsg(m)
}

func _Trading_SubmitOrder_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(OrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TradingServer).SubmitOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/aeromatch.Trading/SubmitOrder"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TradingServer).SubmitOrder(ctx, req.(*OrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Trading_CancelOrder_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CancelRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TradingServer).CancelOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/aeromatch.Trading/CancelOrder"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TradingServer).CancelOrder(ctx, req.(*CancelRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Trading_StreamTrades_Handler(srv any, stream grpc.ServerStream) error {
	m := new(StreamTradesRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(TradingServer).StreamTrades(m, &tradingStreamTradesServer{stream})
}

// tradingServiceDesc plays the role of a protoc-generated ServiceDesc.
var tradingServiceDesc = grpc.ServiceDesc{
	ServiceName: "aeromatch.Trading",
	HandlerType: (*TradingServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SubmitOrder", Handler: _Trading_SubmitOrder_Handler},
		{MethodName: "CancelOrder", Handler: _Trading_CancelOrder_Handler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "StreamTrades", Handler: _Trading_StreamTrades_Handler, ServerStreams: true},
	},
	Metadata: "aeromatch/trading.proto",
}

// service implements TradingServer against a single engine.Runner.
type service struct {
	runner *engine.Runner
}

func (s *service) SubmitOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	if req.Quantity == 0 {
		return nil, fmt.Errorf("grpcadapter: quantity must be > 0")
	}
	orderID, trades := s.runner.SubmitOrder(req.Side, req.OrderType, req.Price, req.Quantity)

	var filled uint32
	for _, t := range trades {
		filled += uint32(t.Quantity)
	}

	return &OrderResponse{
		OrderID:    orderID,
		AckedAt:    nowTimestamp(),
		FilledQty:  quantityOf(filled),
		RequestQty: req.Quantity,
	}, nil
}

func (s *service) CancelOrder(ctx context.Context, req *CancelRequest) (*CancelResponse, error) {
	return &CancelResponse{Cancelled: s.runner.CancelOrder(req.OrderID)}, nil
}

func (s *service) StreamTrades(_ *StreamTradesRequest, stream TradingStreamTradesServer) error {
	trades := s.runner.TradesChannel()
	ctx := stream.Context()
	for {
		select {
		case t, ok := <-trades:
			if !ok {
				return nil
			}
			if err := stream.Send(TradeEventFromTrade(t)); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Server hosts the gRPC trading service.
type Server struct {
	addr     string
	grpc     *grpc.Server
	listener net.Listener
}

// NewServer creates a gRPC server bound to addr (e.g. ":50051") that
// serves runner's order book over the Trading service.
func NewServer(runner *engine.Runner, addr string, maxMessageSize int) (*Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	opts := []grpc.ServerOption{}
	if maxMessageSize > 0 {
		opts = append(opts, grpc.MaxRecvMsgSize(maxMessageSize), grpc.MaxSendMsgSize(maxMessageSize))
	}

	srv := grpc.NewServer(opts...)
	srv.RegisterService(&tradingServiceDesc, &service{runner: runner})

	return &Server{addr: addr, grpc: srv, listener: lis}, nil
}

// Start serves gRPC requests until Stop is called. Blocks the calling
// goroutine — callers typically invoke it with `go server.Start()`.
func (s *Server) Start() error {
	util.Infof("gRPC server listening on %s", s.addr)
	return s.grpc.Serve(s.listener)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() {
	s.grpc.GracefulStop()
}
