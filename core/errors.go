package core

import (
	"fmt"

	"github.com/google/uuid"
)

var TimeoutError = fmt.Errorf("timeout error")
var DeadlineExceededError = fmt.Errorf("deadline exceeded")
var ReceiptNotFoundError = fmt.Errorf("could not get transaction receipt")
var MethodNotAllowedError = fmt.Errorf("method not allowed")

// RequestTimeoutError is returned by MakeRequest in asynchronous mode when
// no outcome arrived for the request within the client timeout.
type RequestTimeoutError struct {
	ID uuid.UUID
}

func (e *RequestTimeoutError) Error() string {
	return fmt.Sprintf("timeout waiting for %s", e.ID)
}

// RPCError is a JSON-RPC error object returned by the node itself, as
// opposed to a transport failure reaching it.
type RPCError struct {
	Code    int64
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}
