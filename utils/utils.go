package utils

import (
	"math"
	"math/rand"
)

// NewPositiveRandomVector returns a grid offset with both components in [0, size).
func NewPositiveRandomVector(rng *rand.Rand, size int) [2]int {
	x := rng.Intn(size)
	y := rng.Intn(size)
	return [2]int{x, y}
}

// NewRandomPositiveVectors returns numberOfVectors random offsets of varying length up to maxVectorSize.
func NewRandomPositiveVectors(rng *rand.Rand, numberOfVectors, maxVectorSize int) [][2]int {
	seedVectors := make([][2]int, numberOfVectors)
	for index := range seedVectors {
		currentLength := rng.Intn(maxVectorSize)
		if currentLength == 0 || currentLength > maxVectorSize {
			currentLength = maxVectorSize
		}
		seedVectors[index] = NewPositiveRandomVector(rng, currentLength)
	}
	return seedVectors
}

// RandomNumberN returns a non-zero integer in [-amplitude, amplitude].
func RandomNumberN(rng *rand.Rand, amplitude int) int {
	n := rng.Intn(amplitude) + 1
	if rng.Intn(2) == 0 {
		return -n
	}
	return n
}

func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func ClampInt(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

// SignOf returns -1, 0 or 1.
func SignOf(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func IsFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
