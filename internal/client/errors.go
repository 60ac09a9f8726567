package client

import (
	"errors"
	"fmt"
)

// Errors a command caller can observe. Transport failures never cross
// this boundary; they are consumed by the reconnect loop.
var (
	// ErrTimeout fails a request that saw no response within the
	// request timeout. A late response for the id is dropped.
	ErrTimeout = errors.New("request timed out")

	// ErrNotConnected fails requests issued while no session is open.
	ErrNotConnected = errors.New("not connected")

	// ErrAuthFailed wraps a failed auth command. Recovery happens via
	// the next reconnect cycle, never in place.
	ErrAuthFailed = errors.New("authentication failed")
)

// RPCError carries an error string the hub reported for a command.
type RPCError struct {
	Command string
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Message)
}
