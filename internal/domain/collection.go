package domain

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrRaggedGrid is returned when the rows of a grid differ in length.
var ErrRaggedGrid = errors.New("grid rows have different lengths")

// ConvertSequence converts each Fahrenheit value in fs to Celsius. The result
// has the same length and order as fs and never shares its backing array.
func ConvertSequence(fs []float64) []float64 {
	out := make([]float64, len(fs))
	for i, f := range fs {
		out[i] = float64(FahrenheitToCelsius(Fahrenheit(f)))
	}
	return out
}

// ConvertMatrix converts every cell of m from Fahrenheit to Celsius into a new
// dense matrix of the same shape. An empty m yields an empty matrix.
func ConvertMatrix(m mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return &mat.Dense{}
	}
	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, _ int, v float64) float64 {
		return float64(FahrenheitToCelsius(Fahrenheit(v)))
	}, m)
	return out
}

// GridToDense copies a rectangular, non-empty grid into a dense matrix.
func GridToDense(grid [][]float64) (*mat.Dense, error) {
	rows, cols, err := gridShape(grid)
	if err != nil {
		return nil, err
	}
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("grid is empty (%dx%d)", rows, cols)
	}
	data := make([]float64, 0, rows*cols)
	for _, row := range grid {
		data = append(data, row...)
	}
	return mat.NewDense(rows, cols, data), nil
}

// DenseToGrid copies m into a freshly allocated row-major grid.
func DenseToGrid(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	grid := make([][]float64, r)
	for i := range grid {
		grid[i] = make([]float64, c)
		for j := range grid[i] {
			grid[i][j] = m.At(i, j)
		}
	}
	return grid
}

// ConvertGrid converts a row-major grid of Fahrenheit values to Celsius,
// preserving its shape. Grids with no rows or with zero-length rows are
// returned as empty grids of the same shape.
func ConvertGrid(grid [][]float64) ([][]float64, error) {
	rows, cols, err := gridShape(grid)
	if err != nil {
		return nil, err
	}
	if rows == 0 || cols == 0 {
		out := make([][]float64, rows)
		for i := range out {
			out[i] = []float64{}
		}
		return out, nil
	}

	dense, err := GridToDense(grid)
	if err != nil {
		return nil, err
	}
	return DenseToGrid(ConvertMatrix(dense)), nil
}

// gridShape returns the dimensions of grid, or ErrRaggedGrid if its rows
// disagree on length.
func gridShape(grid [][]float64) (rows, cols int, err error) {
	if len(grid) == 0 {
		return 0, 0, nil
	}
	cols = len(grid[0])
	for i, row := range grid {
		if len(row) != cols {
			return 0, 0, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(row), cols, ErrRaggedGrid)
		}
	}
	return len(grid), cols, nil
}
