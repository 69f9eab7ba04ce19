// Package wire implements the fixed-size 32-byte binary messages the TCP
// adapter exchanges with clients. The gRPC adapter does not use them; its
// codec has its own message layouts. Layout is taken verbatim from
// original_source/include/protocol.h.
package wire

import (
	"encoding/binary"

	"github.com/aeromatch/internal/obtypes"
)

// MsgType identifies the kind of a wire message.
type MsgType uint8

const (
	NewOrder MsgType = 1
	Cancel   MsgType = 2
	Ack      MsgType = 10
	Fill     MsgType = 11
	Reject   MsgType = 12
)

// MessageSize is the fixed size, in bytes, of both OrderMessage and
// ResponseMessage on the wire.
const MessageSize = 32

// OrderMessage is the client-to-server message.
//
//	u8  msg_type
//	u8  side
//	u8  order_type
//	u8[5] padding
//	u64 order_id   (CANCEL: id to cancel; NEW_ORDER: ignored)
//	i64 price
//	u32 quantity
//	u32 reserved
type OrderMessage struct {
	MsgType   MsgType
	Side      obtypes.Side
	OrderType obtypes.OrderType
	OrderID   obtypes.OrderID
	Price     obtypes.Price
	Quantity  obtypes.Quantity
	Reserved  uint32
}

// ResponseMessage is the server-to-client message.
//
//	u8  msg_type
//	u8[3] padding
//	u32 quantity   (FILL: fill qty)
//	u64 order_id
//	i64 price      (FILL: fill price)
//	u64 match_id   (FILL: counterparty order id)
type ResponseMessage struct {
	MsgType  MsgType
	Quantity obtypes.Quantity
	OrderID  obtypes.OrderID
	Price    obtypes.Price
	MatchID  obtypes.OrderID
}

// Encode serializes m into a MessageSize-byte little-endian buffer.
func (m OrderMessage) Encode() [MessageSize]byte {
	var buf [MessageSize]byte
	buf[0] = byte(m.MsgType)
	buf[1] = byte(m.Side)
	buf[2] = byte(m.OrderType)
	// bytes 3-7 are padding, left zero
	binary.LittleEndian.PutUint64(buf[8:16], uint64(m.OrderID))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(m.Price))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(m.Quantity))
	binary.LittleEndian.PutUint32(buf[28:32], m.Reserved)
	return buf
}

// DecodeOrderMessage parses a MessageSize-byte little-endian buffer.
func DecodeOrderMessage(buf []byte) OrderMessage {
	var m OrderMessage
	m.MsgType = MsgType(buf[0])
	m.Side = obtypes.Side(buf[1])
	m.OrderType = obtypes.OrderType(buf[2])
	m.OrderID = obtypes.OrderID(binary.LittleEndian.Uint64(buf[8:16]))
	m.Price = obtypes.Price(int64(binary.LittleEndian.Uint64(buf[16:24])))
	m.Quantity = obtypes.Quantity(binary.LittleEndian.Uint32(buf[24:28]))
	m.Reserved = binary.LittleEndian.Uint32(buf[28:32])
	return m
}

// Encode serializes m into a MessageSize-byte little-endian buffer.
func (m ResponseMessage) Encode() [MessageSize]byte {
	var buf [MessageSize]byte
	buf[0] = byte(m.MsgType)
	// bytes 1-3 are padding, left zero
	binary.LittleEndian.PutUint32(buf[4:8], uint32(m.Quantity))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(m.OrderID))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(m.Price))
	binary.LittleEndian.PutUint64(buf[24:32], uint64(m.MatchID))
	return buf
}

// DecodeResponseMessage parses a MessageSize-byte little-endian buffer.
func DecodeResponseMessage(buf []byte) ResponseMessage {
	var m ResponseMessage
	m.MsgType = MsgType(buf[0])
	m.Quantity = obtypes.Quantity(binary.LittleEndian.Uint32(buf[4:8]))
	m.OrderID = obtypes.OrderID(binary.LittleEndian.Uint64(buf[8:16]))
	m.Price = obtypes.Price(int64(binary.LittleEndian.Uint64(buf[16:24])))
	m.MatchID = obtypes.OrderID(binary.LittleEndian.Uint64(buf[24:32]))
	return m
}
