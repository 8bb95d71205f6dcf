// Package binding exposes the temperature operations under stable callable
// names so that hosts (HTTP, Kafka, CLI) can invoke them with positional JSON
// arguments.
package binding

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/couchcryptid/tempconv-service/internal/observability"
)

// Exposed function names. These are part of the external contract and must
// not change.
const (
	FToCelsius       = "f_to_celsius"
	CToK             = "c_to_k"
	FToKelvin        = "f_to_kelvin"
	CheckTemperature = "check_temperature"
	Count            = "count"
	FToCVector       = "f_to_c_vector"
	FToCMatrix       = "f_to_c_matrix"
)

var (
	// ErrUnknownFunction is returned when no function is registered under a name.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrArity is returned when a call supplies the wrong number of arguments.
	ErrArity = errors.New("wrong number of arguments")

	// ErrInvalidArgument is returned when an argument cannot be decoded into
	// the type the function expects or violates its shape contract.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Function describes one exposed callable.
type Function struct {
	Name  string `json:"name"`
	Doc   string `json:"doc"`
	Arity int    `json:"arity"`

	call func(r *Registry, args []json.RawMessage, out io.Writer) (any, error)
}

// Option configures a Registry.
type Option func(*Registry)

// WithCountLimit rejects count calls whose max exceeds n. Zero disables the limit.
func WithCountLimit(n int) Option {
	return func(r *Registry) { r.countLimit = n }
}

// WithMetrics records call outcomes and durations.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// Registry maps exposed names to functions. It is immutable after
// construction and safe for concurrent use.
type Registry struct {
	functions  map[string]Function
	countLimit int
	metrics    *observability.Metrics
}

// NewRegistry creates a Registry holding every exposed temperature function.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{functions: make(map[string]Function, len(builtins))}
	for _, fn := range builtins {
		r.functions[fn.Name] = fn
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Functions returns the registered functions sorted by name.
func (r *Registry) Functions() []Function {
	fns := make([]Function, 0, len(r.functions))
	for _, fn := range r.functions {
		fns = append(fns, fn)
	}
	sort.Slice(fns, func(i, j int) bool { return fns[i].Name < fns[j].Name })
	return fns
}

// CountLimit returns the largest max accepted by count, or zero if unlimited.
func (r *Registry) CountLimit() int {
	return r.countLimit
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (Function, bool) {
	fn, ok := r.functions[name]
	return fn, ok
}

// Call invokes the function registered under name with positional args and
// returns its JSON-encoded result. Lines printed by the function (count) are
// written to out; functions with no return value yield JSON null.
func (r *Registry) Call(name string, args []json.RawMessage, out io.Writer) (json.RawMessage, error) {
	start := time.Now()
	result, err := r.call(name, args, out)
	r.observe(name, err, time.Since(start))
	return result, err
}

func (r *Registry) call(name string, args []json.RawMessage, out io.Writer) (json.RawMessage, error) {
	fn, ok := r.functions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	if len(args) != fn.Arity {
		return nil, fmt.Errorf("%s: %w: got %d, want %d", name, ErrArity, len(args), fn.Arity)
	}
	if out == nil {
		out = io.Discard
	}

	value, err := fn.call(r, args, out)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%s: encode result: %w", name, err)
	}
	return data, nil
}

func (r *Registry) observe(name string, err error, elapsed time.Duration) {
	if r.metrics == nil {
		return
	}
	outcome := "success"
	switch {
	case errors.Is(err, ErrUnknownFunction):
		// Keep label cardinality bounded by the exposed names.
		name = "unknown"
		outcome = "unknown_function"
	case errors.Is(err, ErrArity), errors.Is(err, ErrInvalidArgument):
		outcome = "invalid"
	case err != nil:
		outcome = "error"
	}
	r.metrics.CallsTotal.WithLabelValues(name, outcome).Inc()
	r.metrics.CallDuration.WithLabelValues(name).Observe(elapsed.Seconds())
}
