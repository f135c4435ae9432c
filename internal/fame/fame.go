// Package fame turns a raw liked count into a population-relative 0-5 star rating.
//
// The population is split into five equal bands (band = total/5) and
// stars = ceil(likedCount/band), clamped to [1, 5]. A user nobody likes, or
// an empty population, rates 0 stars. All arithmetic is done on integers as
// ceil(5*likedCount/total) so band boundaries are exact.
package fame

import "math"

// MaxStars is the highest rating.
const MaxStars = 5

// Unbounded is the upper liked-count bound of a range that includes MaxStars.
const Unbounded = math.MaxInt64

// Rating is the decorated fame of a profile.
type Rating struct {
	Stars      int   `json:"stars"`
	LikedCount int64 `json:"liked_count"`
}

// Stars returns the star rating for likedCount within a population of total users.
//
// Example (total = 500, band = 100):
//
//	Stars(500, 0)   // 0
//	Stars(500, 100) // 1
//	Stars(500, 101) // 2
//	Stars(500, 500) // 5
func Stars(total, likedCount int64) int {
	if total < 1 || likedCount <= 0 {
		return 0
	}
	s := ceilDiv(MaxStars*likedCount, total)
	if s > MaxStars {
		return MaxStars
	}
	return int(s)
}

// NewRating builds a Rating for likedCount within total.
func NewRating(total, likedCount int64) Rating {
	return Rating{Stars: Stars(total, likedCount), LikedCount: likedCount}
}

// LikedRange translates a star range into the inclusive liked-count range
// [lo, hi] whose Stars value lies in [minStars, maxStars]. ok is false when
// no count can produce a rating in range.
//
// Behavior:
//   - minStars == 0 gives lo = 0; otherwise lo = band*minStars - band + 1.
//   - maxStars == 0 gives hi = 0; maxStars == 5 is open-ended since Stars clamps;
//     otherwise hi = band*maxStars.
//   - Bounds are rounded to whole counts so that non-integer bands leave no gaps.
//
// Callers validate 0 <= minStars <= maxStars <= 5 beforehand.
func LikedRange(total int64, minStars, maxStars int) (lo, hi int64, ok bool) {
	if total < 1 {
		// everybody rates 0 stars
		return 0, Unbounded, minStars == 0
	}

	if minStars > 0 {
		// smallest count strictly above band*(minStars-1)
		lo = total*int64(minStars-1)/MaxStars + 1
	}
	switch {
	case maxStars >= MaxStars:
		hi = Unbounded
	case maxStars > 0:
		// largest count not above band*maxStars
		hi = total * int64(maxStars) / MaxStars
	}
	return lo, hi, lo <= hi
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}
