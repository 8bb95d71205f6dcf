package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/couchcryptid/tempconv-service/internal/binding"
	"github.com/couchcryptid/tempconv-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// maxCallBody bounds the size of a function-call request body.
const maxCallBody = 1 << 20

// callBody is the JSON body accepted by POST /v1/functions/{name}.
type callBody struct {
	Args []json.RawMessage `json:"args"`
}

func (s *Server) handleListFunctions(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.registry.Functions())
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var body callBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCallBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if body.Args == nil {
		body.Args = []json.RawMessage{}
	}

	req := domain.CallRequest{
		ID:       r.Header.Get(requestIDHeader),
		Function: name,
		Args:     body.Args,
	}

	var printed bytes.Buffer
	result, err := s.registry.Call(req.Function, req.Args, &printed)
	res := domain.NewCallResult(req, result, domain.OutputLines(printed.String()), err)

	status := callStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("function call failed", "request_id", req.ID, "function", name, "error", err)
	}
	sharedobs.WriteJSON(w, status, res)
}

// callStatus maps binding errors onto HTTP status codes.
func callStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, binding.ErrUnknownFunction):
		return http.StatusNotFound
	case errors.Is(err, binding.ErrArity), errors.Is(err, binding.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
