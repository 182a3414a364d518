package appointment

import "time"

// Overlaps reports whether [s1,e1) and [s2,e2) intersect. Touching
// intervals do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}
