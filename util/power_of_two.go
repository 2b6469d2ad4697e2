package util

import "math/bits"

// IsPowerOfTwo reports whether num is a positive power of two.
func IsPowerOfTwo(num int) bool {
	if num <= 0 {
		return false
	}

	return (num & (num - 1)) == 0
}

// NextPowerOfTwo returns n when it is a power of two, otherwise the next
// larger power of two. Values below 1 return 1.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}

	if IsPowerOfTwo(n) {
		return n
	}

	return 1 << bits.Len(uint(n))
}

