package binding

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/couchcryptid/tempconv-service/internal/domain"
)

// builtins lists the exposed functions. Names, docs, and arity mirror the
// public contract.
var builtins = []Function{
	{Name: FToCelsius, Doc: "Convert fahrenheit to celsius", Arity: 1, call: callFToCelsius},
	{Name: CToK, Doc: "Convert celsius to kelvin", Arity: 1, call: callCToK},
	{Name: FToKelvin, Doc: "Convert fahrenheit to kelvin", Arity: 1, call: callFToKelvin},
	{Name: CheckTemperature, Doc: "Check if the temperature is unphysical", Arity: 1, call: callCheckTemperature},
	{Name: Count, Doc: "Print the count up to a given number", Arity: 1, call: callCount},
	{Name: FToCVector, Doc: "Convert a vector of fahrenheit to celsius", Arity: 1, call: callFToCVector},
	{Name: FToCMatrix, Doc: "Convert a matrix of fahrenheit to celsius", Arity: 1, call: callFToCMatrix},
}

func callFToCelsius(_ *Registry, args []json.RawMessage, _ io.Writer) (any, error) {
	f, err := decodeArg[float64](args, 0)
	if err != nil {
		return nil, err
	}
	return float64(domain.FahrenheitToCelsius(domain.Fahrenheit(f))), nil
}

func callCToK(_ *Registry, args []json.RawMessage, _ io.Writer) (any, error) {
	c, err := decodeArg[float64](args, 0)
	if err != nil {
		return nil, err
	}
	return float64(domain.CelsiusToKelvin(domain.Celsius(c))), nil
}

func callFToKelvin(_ *Registry, args []json.RawMessage, _ io.Writer) (any, error) {
	f, err := decodeArg[float64](args, 0)
	if err != nil {
		return nil, err
	}
	return float64(domain.FahrenheitToKelvin(domain.Fahrenheit(f))), nil
}

func callCheckTemperature(r *Registry, args []json.RawMessage, _ io.Writer) (any, error) {
	f, err := decodeArg[float64](args, 0)
	if err != nil {
		return nil, err
	}
	valid := domain.IsPhysicallyValid(domain.Fahrenheit(f))
	if r.metrics != nil {
		r.metrics.ValidityChecks.WithLabelValues(validityLabel(valid)).Inc()
	}
	return valid, nil
}

func callCount(r *Registry, args []json.RawMessage, out io.Writer) (any, error) {
	n, err := decodeArg[int](args, 0)
	if err != nil {
		return nil, err
	}
	if r.countLimit > 0 && n > r.countLimit {
		return nil, fmt.Errorf("%w: max %d exceeds limit %d", ErrInvalidArgument, n, r.countLimit)
	}
	if err := domain.Count(out, n); err != nil {
		return nil, err
	}
	return nil, nil
}

func callFToCVector(_ *Registry, args []json.RawMessage, _ io.Writer) (any, error) {
	fs, err := decodeVector(args, 0)
	if err != nil {
		return nil, err
	}
	return domain.ConvertSequence(fs), nil
}

func callFToCMatrix(_ *Registry, args []json.RawMessage, _ io.Writer) (any, error) {
	grid, err := decodeGrid(args, 0)
	if err != nil {
		return nil, err
	}
	converted, err := domain.ConvertGrid(grid)
	if err != nil {
		return nil, fmt.Errorf("%w: argument 0: %w", ErrInvalidArgument, err)
	}
	return converted, nil
}

// decodeArg unmarshals the i-th positional argument into T. JSON null is
// rejected because none of the exposed functions accept an absent value.
func decodeArg[T any](args []json.RawMessage, i int) (T, error) {
	var v T
	raw := args[i]
	if len(raw) == 0 || string(raw) == "null" {
		return v, fmt.Errorf("%w: argument %d is null", ErrInvalidArgument, i)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: argument %d: %w", ErrInvalidArgument, i, err)
	}
	return v, nil
}

// decodeVector decodes the i-th argument as a sequence of numbers. A null
// element is rejected rather than read as zero.
func decodeVector(args []json.RawMessage, i int) ([]float64, error) {
	elems, err := decodeArg[[]*float64](args, i)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(elems))
	for j, v := range elems {
		if v == nil {
			return nil, fmt.Errorf("%w: argument %d: element %d is null", ErrInvalidArgument, i, j)
		}
		out[j] = *v
	}
	return out, nil
}

// decodeGrid decodes the i-th argument as rows of numbers. Null rows and null
// cells are rejected; an empty row ([]) is kept.
func decodeGrid(args []json.RawMessage, i int) ([][]float64, error) {
	rows, err := decodeArg[[][]*float64](args, i)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(rows))
	for r, row := range rows {
		if row == nil {
			return nil, fmt.Errorf("%w: argument %d: row %d is null", ErrInvalidArgument, i, r)
		}
		out[r] = make([]float64, len(row))
		for c, v := range row {
			if v == nil {
				return nil, fmt.Errorf("%w: argument %d: row %d column %d is null", ErrInvalidArgument, i, r, c)
			}
			out[r][c] = *v
		}
	}
	return out, nil
}

func validityLabel(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}
