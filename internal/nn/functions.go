package nn

import "math"

const sigmoidInputLimit = 64.0

// Linear is the identity activation.
func Linear(x float64) float64 { return x }

// Sigmoid is the logistic function. The input is clamped to [-64, 64] so
// Exp never overflows.
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-SaturationWithSpread(x, sigmoidInputLimit)))
}

// SteepenedSigmoid is the logistic function with slope 4.9, the variant
// used for hidden units in topology-evolving networks.
func SteepenedSigmoid(x float64) float64 {
	return Sigmoid(4.9 * x)
}

// ReLU zeroes negative inputs.
func ReLU(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

// LeakyReLU keeps a 0.01 slope for negative inputs.
func LeakyReLU(x float64) float64 {
	if x < 0 {
		return 0.01 * x
	}
	return x
}

// Gauss is the unnormalized gaussian exp(-x*x), input clamped to [-10, 10].
func Gauss(x float64) float64 {
	x = SaturationWithSpread(x, 10)
	return math.Exp(-(x * x))
}

// Step is the unit step: 1 for positive inputs, 0 otherwise.
func Step(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// Clamped clips the input to [-1, 1].
func Clamped(x float64) float64 {
	return SaturationWithSpread(x, 1)
}

// SaturationWithSpread clamps values to the symmetric range [-spread, spread].
func SaturationWithSpread(value, spread float64) float64 {
	if spread < 0 {
		spread = -spread
	}
	if value > spread {
		return spread
	}
	if value < -spread {
		return -spread
	}
	return value
}
