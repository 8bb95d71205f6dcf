package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/couchcryptid/tempconv-service/internal/domain"
)

// Caller invokes an exposed function by name. *binding.Registry satisfies it.
type Caller interface {
	Call(name string, args []json.RawMessage, out io.Writer) (json.RawMessage, error)
}

// CallTransformer implements Transformer by decoding a call request, invoking
// it through the binding layer, and serializing the result.
type CallTransformer struct {
	caller Caller
	logger *slog.Logger
}

// NewTransformer creates a CallTransformer backed by caller.
func NewTransformer(caller Caller, logger *slog.Logger) *CallTransformer {
	return &CallTransformer{
		caller: caller,
		logger: logger,
	}
}

// Transform returns an error only for messages that are not call requests at
// all. A request the binding layer rejects still produces a result carrying
// the rejection, so the caller receives an answer.
func (t *CallTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	req, err := domain.ParseCallRequest(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	var printed bytes.Buffer
	result, callErr := t.caller.Call(req.Function, req.Args, &printed)
	if callErr != nil {
		t.logger.Info("call rejected",
			"request_id", req.ID,
			"function", req.Function,
			"error", callErr,
		)
	}

	res := domain.NewCallResult(req, result, domain.OutputLines(printed.String()), callErr)
	return domain.SerializeCallResult(res)
}
