// Package grpcadapter exposes order submission, cancellation, and a
// trade-event stream over gRPC, generalizing the teacher's
// internal/protocol/grpc_server.go from a multi-instrument service to the
// engine's single symbol.
//
// This rewrite has no access to protoc, so the request/response messages
// are plain Go structs with a hand-written fixed-layout codec instead of
// protoc-generated descriptor-backed types (see DESIGN.md). The codec is
// registered under the name "proto" via google.golang.org/grpc/encoding,
// which is the real, documented extension point grpc-go uses to resolve a
// message codec from a request's content-subtype — this overrides the
// default protobuf-reflection codec globally for this process, so every
// message on this server goes through encodeTo/decodeFrom below instead
// of proto.Marshal/Unmarshal.
package grpcadapter

import (
	"encoding/binary"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/aeromatch/internal/obtypes"
)

// wireMessage is implemented by every message type this codec can carry.
type wireMessage interface {
	encodeTo() []byte
	decodeFrom([]byte) error
}

// OrderRequest submits a new order.
type OrderRequest struct {
	Side      obtypes.Side
	OrderType obtypes.OrderType
	Price     obtypes.Price
	Quantity  obtypes.Quantity
}

func (m *OrderRequest) encodeTo() []byte {
	buf := make([]byte, 14)
	buf[0] = byte(m.Side)
	buf[1] = byte(m.OrderType)
	binary.LittleEndian.PutUint64(buf[2:10], uint64(m.Price))
	binary.LittleEndian.PutUint32(buf[10:14], uint32(m.Quantity))
	return buf
}

func (m *OrderRequest) decodeFrom(data []byte) error {
	if len(data) < 14 {
		return fmt.Errorf("grpcadapter: short OrderRequest (%d bytes)", len(data))
	}
	m.Side = obtypes.Side(data[0])
	m.OrderType = obtypes.OrderType(data[1])
	m.Price = obtypes.Price(int64(binary.LittleEndian.Uint64(data[2:10])))
	m.Quantity = obtypes.Quantity(binary.LittleEndian.Uint32(data[10:14]))
	return nil
}

// OrderResponse acknowledges an OrderRequest with the assigned id.
type OrderResponse struct {
	OrderID    obtypes.OrderID
	AckedAt    *timestamppb.Timestamp
	FilledQty  obtypes.Quantity
	RequestQty obtypes.Quantity
}

func (m *OrderResponse) encodeTo() []byte {
	buf := make([]byte, 24)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(m.OrderID))
	ackNanos := int64(0)
	if m.AckedAt != nil {
		ackNanos = m.AckedAt.AsTime().UnixNano()
	}
	binary.LittleEndian.PutUint64(buf[8:16], uint64(ackNanos))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(m.FilledQty))
	binary.LittleEndian.PutUint32(buf[20:24], uint32(m.RequestQty))
	return buf
}

func (m *OrderResponse) decodeFrom(data []byte) error {
	if len(data) < 24 {
		return fmt.Errorf("grpcadapter: short OrderResponse (%d bytes)", len(data))
	}
	m.OrderID = obtypes.OrderID(binary.LittleEndian.Uint64(data[0:8]))
	ackNanos := int64(binary.LittleEndian.Uint64(data[8:16]))
	m.AckedAt = timestamppb.New(time.Unix(0, ackNanos))
	m.FilledQty = obtypes.Quantity(binary.LittleEndian.Uint32(data[16:20]))
	m.RequestQty = obtypes.Quantity(binary.LittleEndian.Uint32(data[20:24]))
	return nil
}

// CancelRequest asks the engine to cancel an order by id.
type CancelRequest struct {
	OrderID obtypes.OrderID
}

func (m *CancelRequest) encodeTo() []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(m.OrderID))
	return buf
}

func (m *CancelRequest) decodeFrom(data []byte) error {
	if len(data) < 8 {
		return fmt.Errorf("grpcadapter: short CancelRequest (%d bytes)", len(data))
	}
	m.OrderID = obtypes.OrderID(binary.LittleEndian.Uint64(data[0:8]))
	return nil
}

// CancelResponse reports whether the cancel succeeded.
type CancelResponse struct {
	Cancelled bool
}

func (m *CancelResponse) encodeTo() []byte {
	if m.Cancelled {
		return []byte{1}
	}
	return []byte{0}
}

func (m *CancelResponse) decodeFrom(data []byte) error {
	if len(data) < 1 {
		return fmt.Errorf("grpcadapter: empty CancelResponse")
	}
	m.Cancelled = data[0] != 0
	return nil
}

// StreamTradesRequest opens the trade event stream. Empty for a
// single-symbol engine — kept as a message (rather than google.protobuf.Empty)
// so the RPC signature matches the generated-code shape adapters expect.
type StreamTradesRequest struct{}

func (m *StreamTradesRequest) encodeTo() []byte             { return nil }
func (m *StreamTradesRequest) decodeFrom(data []byte) error { return nil }

// TradeEvent mirrors obtypes.Trade for the wire. Sequence carries the
// engine's own monotonic event counter (obtypes.Trade.Timestamp) verbatim,
// distinct from OccurredAt, which is the wall-clock time this event was
// pulled off the Runner's trade channel — the engine's counter is not a
// wall-clock time and must never be reinterpreted as one.
type TradeEvent struct {
	BuyerOrderID  obtypes.OrderID
	SellerOrderID obtypes.OrderID
	Price         obtypes.Price
	Quantity      obtypes.Quantity
	Sequence      obtypes.Timestamp
	OccurredAt    *timestamppb.Timestamp
}

func TradeEventFromTrade(t obtypes.Trade) *TradeEvent {
	return &TradeEvent{
		BuyerOrderID:  t.BuyerOrderID,
		SellerOrderID: t.SellerOrderID,
		Price:         t.Price,
		Quantity:      t.Quantity,
		Sequence:      t.Timestamp,
		OccurredAt:    nowTimestamp(),
	}
}

func (m *TradeEvent) encodeTo() []byte {
	buf := make([]byte, 44)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(m.BuyerOrderID))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(m.SellerOrderID))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(m.Price))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(m.Quantity))
	binary.LittleEndian.PutUint64(buf[28:36], uint64(m.Sequence))
	occurredNanos := int64(0)
	if m.OccurredAt != nil {
		occurredNanos = m.OccurredAt.AsTime().UnixNano()
	}
	binary.LittleEndian.PutUint64(buf[36:44], uint64(occurredNanos))
	return buf
}

func (m *TradeEvent) decodeFrom(data []byte) error {
	if len(data) < 44 {
		return fmt.Errorf("grpcadapter: short TradeEvent (%d bytes)", len(data))
	}
	m.BuyerOrderID = obtypes.OrderID(binary.LittleEndian.Uint64(data[0:8]))
	m.SellerOrderID = obtypes.OrderID(binary.LittleEndian.Uint64(data[8:16]))
	m.Price = obtypes.Price(int64(binary.LittleEndian.Uint64(data[16:24])))
	m.Quantity = obtypes.Quantity(binary.LittleEndian.Uint32(data[24:28]))
	m.Sequence = obtypes.Timestamp(binary.LittleEndian.Uint64(data[28:36]))
	occurredNanos := int64(binary.LittleEndian.Uint64(data[36:44]))
	m.OccurredAt = timestamppb.New(time.Unix(0, occurredNanos))
	return nil
}
