// Package keyword aligns free-text queries against an index vocabulary by
// correcting misspelled words.
package keyword

// Distance returns the optimal string alignment distance between a and b
// (insertions, deletions, substitutions and adjacent transpositions). Once
// every cell of a row exceeds limit the scan stops and limit+1 is returned.
// A negative limit disables the cutoff.
func Distance(a, b []rune, limit int) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	if limit >= 0 && abs(len(a)-len(b)) > limit {
		return limit + 1
	}

	prevprev := make([]int, len(b)+1)
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		rowMin := cur[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			d := prev[j] + 1
			if v := cur[j-1] + 1; v < d {
				d = v
			}
			if v := prev[j-1] + cost; v < d {
				d = v
			}
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				if v := prevprev[j-2] + 1; v < d {
					d = v
				}
			}
			cur[j] = d
			if d < rowMin {
				rowMin = d
			}
		}
		if limit >= 0 && rowMin > limit {
			return limit + 1
		}
		prevprev, prev, cur = prev, cur, prevprev
	}
	return prev[len(b)]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
