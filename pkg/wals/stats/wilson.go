package stats

import "math"

// Z95 is the 97.5th percentile of the standard normal distribution,
// i.e. the z value of a 95% two-sided confidence level.
const Z95 = 1.959963984540054

// Wilson returns the lower bound of the Wilson score interval for
// successes out of total trials at 95% confidence.
//
//	p = s/n
//	W = (p + z²/2n − z·√((p(1−p) + z²/4n) / n)) / (1 + z²/n)
//
// Returns 0 when total is 0 or no trial succeeded.
func Wilson(successes, total int) float64 {
	return WilsonAt(successes, total, Z95)
}

// WilsonAt is Wilson with an explicit z value.
func WilsonAt(successes, total int, z float64) float64 {
	if total <= 0 || successes <= 0 {
		return 0
	}
	if successes > total {
		successes = total
	}

	n := float64(total)
	p := float64(successes) / n
	z2 := z * z

	lower := (p + z2/(2*n) - z*math.Sqrt((p*(1-p)+z2/(4*n))/n)) / (1 + z2/n)
	if lower < 0 {
		return 0
	}
	return lower
}

// Ratio returns the raw proportion successes/total, or 0 when total is 0.
//
// Deprecated: low-overlap comparisons produce extreme ratios; use Wilson.
func Ratio(successes, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(successes) / float64(total)
}
