package utils

// AbsDiff returns |a - b| for unsigned values without wrapping around.
func AbsDiff(a, b uint64) uint64 {
	if a >= b {
		return a - b
	}
	return b - a
}
