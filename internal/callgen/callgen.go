// Package callgen generates reproducible call requests covering every exposed
// function, plus the results the registry produces for them. It backs the
// genmock fixture tool and pipeline tests.
package callgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/couchcryptid/tempconv-service/internal/binding"
	"github.com/couchcryptid/tempconv-service/internal/domain"
)

// CountLimit is the count limit generated rejections are written against.
// Registries computing expected results must use binding.WithCountLimit(CountLimit).
const CountLimit = 25

// Generate returns n call requests drawn from a PCG seeded with seed. IDs are
// "mock-0000", "mock-0001", and so on. About one call in twenty is
// deliberately rejected by the registry.
func Generate(seed uint64, n int) ([]domain.CallRequest, error) {
	rng := rand.New(rand.NewPCG(seed, seed))
	calls := make([]domain.CallRequest, 0, n)
	for i := range n {
		req, err := generateCall(rng, fmt.Sprintf("mock-%04d", i))
		if err != nil {
			return nil, fmt.Errorf("generate call %d: %w", i, err)
		}
		calls = append(calls, req)
	}
	return calls, nil
}

// Expect runs each call through registry and returns the results, stamped
// with the domain clock.
func Expect(registry *binding.Registry, calls []domain.CallRequest) []domain.CallResult {
	results := make([]domain.CallResult, 0, len(calls))
	for _, req := range calls {
		var printed bytes.Buffer
		result, err := registry.Call(req.Function, req.Args, &printed)
		results = append(results, domain.NewCallResult(req, result, domain.OutputLines(printed.String()), err))
	}
	return results
}

func generateCall(rng *rand.Rand, id string) (domain.CallRequest, error) {
	if rng.IntN(20) == 0 {
		return rejectedCall(rng, id), nil
	}

	var name string
	var arg any
	switch rng.IntN(7) {
	case 0:
		name, arg = binding.FToCelsius, fahrenheit(rng)
	case 1:
		name, arg = binding.CToK, round(rng.Float64()*200-100)
	case 2:
		name, arg = binding.FToKelvin, fahrenheit(rng)
	case 3:
		// Span the lower edge of the validity window.
		name, arg = binding.CheckTemperature, round(rng.Float64()*400-600)
	case 4:
		name, arg = binding.Count, rng.IntN(10)
	case 5:
		vals := make([]float64, rng.IntN(8))
		for j := range vals {
			vals[j] = fahrenheit(rng)
		}
		name, arg = binding.FToCVector, vals
	default:
		rows, cols := 1+rng.IntN(4), 1+rng.IntN(4)
		grid := make([][]float64, rows)
		for r := range grid {
			grid[r] = make([]float64, cols)
			for c := range grid[r] {
				grid[r][c] = fahrenheit(rng)
			}
		}
		name, arg = binding.FToCMatrix, grid
	}

	raw, err := json.Marshal(arg)
	if err != nil {
		return domain.CallRequest{}, err
	}
	return domain.CallRequest{ID: id, Function: name, Args: []json.RawMessage{raw}}, nil
}

func rejectedCall(rng *rand.Rand, id string) domain.CallRequest {
	switch rng.IntN(5) {
	case 0:
		return domain.CallRequest{ID: id, Function: "f_to_rankine", Args: []json.RawMessage{json.RawMessage(`1`)}}
	case 1:
		return domain.CallRequest{ID: id, Function: binding.FToCelsius, Args: []json.RawMessage{}}
	case 2:
		return domain.CallRequest{ID: id, Function: binding.FToCMatrix, Args: []json.RawMessage{json.RawMessage(`[[1,2],[3]]`)}}
	case 3:
		return domain.CallRequest{ID: id, Function: binding.FToCVector, Args: []json.RawMessage{json.RawMessage(`[32,null]`)}}
	default:
		return domain.CallRequest{ID: id, Function: binding.Count, Args: []json.RawMessage{json.RawMessage(fmt.Sprint(CountLimit + 1))}}
	}
}

// fahrenheit returns a plausible weather reading truncated to one decimal.
func fahrenheit(rng *rand.Rand) float64 {
	return round(rng.Float64()*160 - 40)
}

func round(v float64) float64 {
	return float64(int(v*10)) / 10
}
