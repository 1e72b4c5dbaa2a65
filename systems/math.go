package systems

import (
	"math"
	"math/bits"
)

// mod computes the positive modulo in [0, m) (Go's math.Mod can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	// A tiny negative remainder rounds up to m in float32.
	if r >= m {
		r = 0
	}
	return r
}

// modInt computes the positive integer modulo.
func modInt(x, m int32) int32 {
	r := x % m
	if r < 0 {
		r += m
	}
	return r
}

// NextPowerOfTwo returns the smallest power of two >= n (1 for n <= 1).
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// log2 returns floor(log2(n)) for n >= 1.
func log2(n int) int {
	return bits.Len(uint(n)) - 1
}

// sqrtf returns the square root of a float32.
func sqrtf(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}
