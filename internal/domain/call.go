package domain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMissingFunction is returned when a call request names no function.
var ErrMissingFunction = errors.New("call request has no function name")

// ParseCallRequest deserializes a RawEvent's value into a CallRequest. The
// function name is trimmed; a missing ID is derived from the function name and
// arguments.
func ParseCallRequest(raw RawEvent) (CallRequest, error) {
	var req CallRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return CallRequest{}, fmt.Errorf("parse call request: %w", err)
	}

	req.Function = strings.TrimSpace(req.Function)
	if req.Function == "" {
		return CallRequest{}, fmt.Errorf("parse call request: %w", ErrMissingFunction)
	}
	if req.Args == nil {
		req.Args = []json.RawMessage{}
	}

	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		req.ID = generateID(req.Function, req.Args)
	}
	return req, nil
}

// generateID produces a deterministic ID from the function name and its
// compacted arguments, so that reprocessing a message yields the same ID.
func generateID(function string, args []json.RawMessage) string {
	h := sha256.New()
	h.Write([]byte(function))
	for _, arg := range args {
		var buf bytes.Buffer
		if err := json.Compact(&buf, arg); err != nil {
			buf.Reset()
			buf.Write(arg)
		}
		h.Write([]byte{'|'})
		h.Write(buf.Bytes())
	}
	sum := h.Sum(nil)
	return function + "-" + hex.EncodeToString(sum[:8])
}

// NewCallResult builds the result for req, stamped with the package clock.
// A non-nil callErr is recorded in the Error field instead of a result value.
func NewCallResult(req CallRequest, result json.RawMessage, output []string, callErr error) CallResult {
	res := CallResult{
		ID:          req.ID,
		Function:    req.Function,
		Output:      output,
		ProcessedAt: clock.Now(),
	}
	if callErr != nil {
		res.Error = callErr.Error()
		return res
	}
	res.Result = result
	return res
}

// SerializeCallResult marshals a CallResult into an OutputEvent keyed by the
// request ID.
func SerializeCallResult(res CallResult) (OutputEvent, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize call result: %w", err)
	}
	return OutputEvent{
		Key:   []byte(res.ID),
		Value: data,
		Headers: map[string]string{
			"function":     res.Function,
			"processed_at": res.ProcessedAt.UTC().Format(time.RFC3339),
		},
	}, nil
}

// OutputLines breaks text printed by a call into lines, dropping the
// trailing newline. Empty output yields nil.
func OutputLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
