package domain

import (
	"context"
	"encoding/json"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// CallRequest asks the binding layer to invoke one exposed function with
// positional JSON arguments.
type CallRequest struct {
	ID       string            `json:"id,omitempty"`
	Function string            `json:"function"`
	Args     []json.RawMessage `json:"args"`
}

// CallResult is the answer to a CallRequest. Exactly one of Result and Error
// is meaningful: Error is set when the binding layer rejected the call.
type CallResult struct {
	ID          string          `json:"id"`
	Function    string          `json:"function"`
	Result      json.RawMessage `json:"result,omitempty"`
	Output      []string        `json:"output,omitempty"` // lines printed by the call, e.g. count
	Error       string          `json:"error,omitempty"`
	ProcessedAt time.Time       `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
