package domain

type (
	// Fahrenheit is a temperature in degrees Fahrenheit.
	Fahrenheit float64

	// Celsius is a temperature in degrees Celsius.
	Celsius float64

	// Kelvin is a temperature in kelvins.
	Kelvin float64
)

const (
	// fahrenheitOffset is the Fahrenheit reading at the freezing point of water.
	fahrenheitOffset = 32.0

	// fahrenheitPerCelsius is the size of one Celsius degree in Fahrenheit degrees.
	fahrenheitPerCelsius = 1.8

	// ZeroCelsiusInKelvin is 0 °C expressed in kelvins.
	ZeroCelsiusInKelvin = 273.15

	// MaxPlausibleKelvin is the upper end of the validity window. It is a
	// sanity bound, not a physical limit.
	MaxPlausibleKelvin Kelvin = 1.0e6
)

// FahrenheitToCelsius converts f to Celsius.
func FahrenheitToCelsius(f Fahrenheit) Celsius {
	return Celsius((float64(f) - fahrenheitOffset) / fahrenheitPerCelsius)
}

// CelsiusToKelvin converts c to Kelvin.
func CelsiusToKelvin(c Celsius) Kelvin {
	return Kelvin(float64(c) + ZeroCelsiusInKelvin)
}

// FahrenheitToKelvin converts f to Kelvin by way of Celsius.
func FahrenheitToKelvin(f Fahrenheit) Kelvin {
	return CelsiusToKelvin(FahrenheitToCelsius(f))
}

// IsPhysicallyValid reports whether f, converted to Kelvin, falls inside the
// validity window (0, MaxPlausibleKelvin]. Zero kelvin is rejected; exactly
// MaxPlausibleKelvin is accepted.
func IsPhysicallyValid(f Fahrenheit) bool {
	return kelvinInWindow(FahrenheitToKelvin(f))
}

// kelvinInWindow applies both bounds of the validity window. The comparisons
// are written as rejections so that only the two named conditions return false.
func kelvinInWindow(k Kelvin) bool {
	if k <= 0 {
		return false
	}
	if k > MaxPlausibleKelvin {
		return false
	}
	return true
}
