package fields

import "math"

// Rating is a star rating in the range [0, 5], in half-star increments.
type Rating float64

func (r Rating) Valid() bool {
	v := float64(r)
	if v < 0 || v > 5 {
		return false
	}
	// half-star steps only: 0, 0.5, 1 ... 5
	return math.Mod(v*2, 1) == 0
}
