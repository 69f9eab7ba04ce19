// Package tcpadapter implements the binary wire-protocol TCP server. Each
// connection is served by its own goroutine (the idiomatic Go replacement
// for the original implementation's single-threaded kqueue readiness
// loop), but every one of them funnels its engine calls through a single
// engine.Runner so the core still only ever sees one call at a time, per
// spec section 5's "adapters call the engine serially from a single
// thread" contract.
package tcpadapter

import (
	"io"
	"net"

	"github.com/aeromatch/internal/engine"
	"github.com/aeromatch/internal/obtypes"
	"github.com/aeromatch/internal/protocol/wire"
	"github.com/aeromatch/internal/util"
)

// Server accepts client connections and dispatches wire.OrderMessage frames.
type Server struct {
	addr     string
	runner   *engine.Runner
	listener net.Listener
}

// New creates a TCP adapter listening on addr (e.g. ":9000"), submitting
// orders through runner.
func New(addr string, runner *engine.Runner) *Server {
	return &Server{addr: addr, runner: runner}
}

// ListenAndServe binds the listener and serves connections until it
// returns a non-nil error (typically from Close being called).
func (s *Server) ListenAndServe() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = lis

	for {
		conn, err := lis.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(conn)
	}
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	util.Infof("client connected: %s", conn.RemoteAddr())
	defer util.Infof("client disconnected: %s", conn.RemoteAddr())

	buf := make([]byte, wire.MessageSize)
	for {
		if _, err := io.ReadFull(conn, buf); err != nil {
			return
		}
		msg := wire.DecodeOrderMessage(buf)
		responses := s.process(msg)
		for _, resp := range responses {
			encoded := resp.Encode()
			if _, err := conn.Write(encoded[:]); err != nil {
				return
			}
		}
	}
}

// process handles one inbound message and returns the response sequence:
// NEW_ORDER -> one ACK followed by zero or more FILLs in match order;
// CANCEL -> ACK if removed, REJECT otherwise; unknown type -> REJECT.
func (s *Server) process(msg wire.OrderMessage) []wire.ResponseMessage {
	switch msg.MsgType {
	case wire.NewOrder:
		orderID, trades := s.runner.SubmitOrder(msg.Side, msg.OrderType, msg.Price, msg.Quantity)
		responses := make([]wire.ResponseMessage, 0, 1+len(trades))
		responses = append(responses, wire.ResponseMessage{
			MsgType: wire.Ack,
			OrderID: orderID,
		})
		for _, t := range trades {
			counterparty := t.SellerOrderID
			if msg.Side == obtypes.Sell {
				counterparty = t.BuyerOrderID
			}
			responses = append(responses, wire.ResponseMessage{
				MsgType:  wire.Fill,
				Quantity: t.Quantity,
				OrderID:  orderID,
				Price:    t.Price,
				MatchID:  counterparty,
			})
		}
		return responses

	case wire.Cancel:
		ok := s.runner.CancelOrder(msg.OrderID)
		msgType := wire.Reject
		if ok {
			msgType = wire.Ack
		}
		return []wire.ResponseMessage{{MsgType: msgType, OrderID: msg.OrderID}}

	default:
		return []wire.ResponseMessage{{MsgType: wire.Reject, OrderID: msg.OrderID}}
	}
}
