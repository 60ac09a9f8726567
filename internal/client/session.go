package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ulilicht/Musikbar/pkg/maapi"
)

// session owns one websocket connection together with its pending
// request table and id counter. A session is never reused: on any
// disconnect it is discarded wholesale and the supervisor dials a
// fresh one.
type session struct {
	log       *zap.Logger
	conn      *websocket.Conn
	keepAlive time.Duration

	writeMu sync.Mutex
	reqID   atomic.Uint64

	pendingMu sync.Mutex
	pending   map[uint64]chan pendingResult

	closed    chan struct{}
	closeOnce sync.Once
}

type pendingResult struct {
	result    json.RawMessage
	remoteErr string
}

func dialSession(ctx context.Context, log *zap.Logger, wsURL string, keepAlive time.Duration) (*session, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial: %w", err)
	}
	return &session{
		log:       log,
		conn:      conn,
		keepAlive: keepAlive,
		pending:   make(map[uint64]chan pendingResult),
		closed:    make(chan struct{}),
	}, nil
}

// run reads frames until the connection drops, handing each decoded
// message to handle. Malformed frames are logged and dropped without
// tearing the session down. Any traffic, pongs included, extends the
// read deadline; a socket left half open after a suspend stops
// answering pings, the deadline fires and the session dies so the
// supervisor redials instead of trusting the stale connection.
func (s *session) run(handle func(msg maapi.ServerMessage, raw []byte)) {
	defer s.close()
	s.extendReadDeadline()
	s.conn.SetPongHandler(func(string) error {
		s.extendReadDeadline()
		return nil
	})
	go s.pingLoop()
	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			s.log.Debug("websocket read ended", zap.Error(err))
			return
		}
		s.extendReadDeadline()
		var msg maapi.ServerMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.log.Warn("dropping malformed frame", zap.Error(err))
			continue
		}
		handle(msg, payload)
	}
}

func (s *session) extendReadDeadline() {
	_ = s.conn.SetReadDeadline(time.Now().Add(2 * s.keepAlive))
}

func (s *session) pingLoop() {
	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-s.closed:
			return
		case <-ticker.C:
			deadline := time.Now().Add(s.keepAlive)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				s.close()
				return
			}
		}
	}
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.closed)
	})
}

// send issues one command and waits for whichever comes first: its
// response, the request timeout, or context cancellation. Requests
// outstanding when the session dies are not cleaned up here; their
// timeouts fail them.
func (s *session) send(ctx context.Context, command string, args map[string]any, timeout time.Duration) (json.RawMessage, error) {
	if args == nil {
		args = map[string]any{}
	}
	id := s.reqID.Add(1)
	payload, err := json.Marshal(maapi.CommandMessage{
		MessageID: id,
		Command:   command,
		Args:      args,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: marshal: %w", command, err)
	}

	resultCh := make(chan pendingResult, 1)
	s.pendingMu.Lock()
	s.pending[id] = resultCh
	s.pendingMu.Unlock()

	s.writeMu.Lock()
	err = s.conn.WriteMessage(websocket.TextMessage, payload)
	s.writeMu.Unlock()
	if err != nil {
		s.drop(id)
		return nil, fmt.Errorf("%s: write: %w", command, err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		s.drop(id)
		return nil, ctx.Err()
	case <-timer.C:
		s.drop(id)
		return nil, fmt.Errorf("%s: %w", command, ErrTimeout)
	case res := <-resultCh:
		if res.remoteErr != "" {
			return nil, &RPCError{Command: command, Message: res.remoteErr}
		}
		return res.result, nil
	}
}

// resolve completes the pending request matching a response frame.
// Responses for unknown ids, including ones that already timed out,
// are silently dropped. A response without a result field resolves
// with the whole payload.
func (s *session) resolve(msg maapi.ServerMessage, raw []byte) {
	id, ok := msg.ResponseID()
	if !ok {
		return
	}
	s.pendingMu.Lock()
	resultCh, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	s.pendingMu.Unlock()
	if !ok {
		return
	}

	res := pendingResult{result: msg.Result, remoteErr: msg.Error}
	if len(res.result) == 0 && res.remoteErr == "" {
		res.result = raw
	}
	resultCh <- res
}

func (s *session) drop(id uint64) {
	s.pendingMu.Lock()
	delete(s.pending, id)
	s.pendingMu.Unlock()
}
