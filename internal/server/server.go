// Package server hosts the storage engine behind the network protocol: one
// goroutine per connection, every call serialized through a single mutex
// around the engine (spec section 9's shared-engine-under-server note).
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/ignitedb/ignite/internal/adapter"
	"github.com/ignitedb/ignite/internal/protocol"
	kverrors "github.com/ignitedb/ignite/pkg/errors"
)

// Server dispatches protocol requests to a single backing engine.
type Server struct {
	mu     sync.Mutex
	engine adapter.Store
	log    *zap.SugaredLogger
}

// New returns a Server fronting engine.
func New(engine adapter.Store, log *zap.SugaredLogger) *Server {
	return &Server{engine: engine, log: log}
}

// Serve accepts connections on ln until ctx is canceled, handling each in
// its own goroutine. It blocks until ctx is done or ln.Accept fails, and
// then until every open connection has finished.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	for {
		conn, err := ln.Accept()
		if err != nil {
			wg.Wait()
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleConn(conn)
		}()
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	for {
		var req protocol.Request
		if err := protocol.ReadMessage(conn, &req); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return
			}
			s.log.Warnw("failed to read request frame", "error", err, "remote", conn.RemoteAddr())
			return
		}

		resp := s.dispatch(req)

		// Exactly one response per request (spec section 9 fixes the
		// original handler's double OkNoContent write on Set).
		if err := protocol.WriteMessage(conn, resp); err != nil {
			s.log.Warnw("failed to write response frame", "error", err, "remote", conn.RemoteAddr())
			return
		}
	}
}

func (s *Server) dispatch(req protocol.Request) protocol.Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch req.Op {
	case protocol.OpGet:
		value, ok, err := s.engine.Get(req.Key)
		if err != nil {
			return errorResponse(err)
		}
		return protocol.Response{Status: protocol.StatusOkValue, HasValue: ok, Value: value}

	case protocol.OpSet:
		if err := s.engine.Set(req.Key, req.Value); err != nil {
			return errorResponse(err)
		}
		return protocol.Response{Status: protocol.StatusOkNoContent}

	case protocol.OpRemove:
		if err := s.engine.Remove(req.Key); err != nil {
			return errorResponse(err)
		}
		return protocol.Response{Status: protocol.StatusOkNoContent}

	default:
		return protocol.Response{Status: protocol.StatusErrorUnknown, Message: "unrecognized request operation"}
	}
}

func errorResponse(err error) protocol.Response {
	if kverrors.IsKeyNotFound(err) {
		return protocol.Response{Status: protocol.StatusErrorKeyNotFound}
	}
	return protocol.Response{Status: protocol.StatusErrorUnknown, Message: err.Error()}
}
