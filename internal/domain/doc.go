// Package domain models temperatures and the conversions between the
// Fahrenheit, Celsius, and Kelvin scales.
//
// # Scales
//
// Each scale is a distinct float64 type so the compiler tracks which scale a
// value is in:
//
//	Fahrenheit -> Celsius:  c = (f - 32) / 1.8
//	Celsius    -> Kelvin:   k = c + 273.15
//	Fahrenheit -> Kelvin:   composition of the two
//
// All conversions are total over the reals and have no side effects.
//
// # Kelvin Validity Window
//
// A temperature is treated as physically plausible when its Kelvin value lies
// in (0, 1.0e6]. The lower bound is physics (nothing is at or below absolute
// zero); the upper bound is a policy constant, [MaxPlausibleKelvin], that
// catches absurd inputs. See [IsPhysicallyValid].
//
// # Collections
//
// Sequences are plain []float64 slices. Matrices use gonum's dense matrix
// type; [ConvertGrid] accepts [][]float64 at the transport boundary and
// rejects ragged rows with [ErrRaggedGrid].
//
// # Calls
//
// [CallRequest] and [CallResult] are the transport-neutral envelopes used by
// the binding layer when an operation is invoked by name from a message or an
// HTTP request. Request IDs missing from a payload are derived from the
// function name and arguments so a replayed message keeps its ID.
package domain
