package utils

// map each element in sli.
//
// args:
//   - sli : slice of `T`s
//   - mapper : mapping function from T to R
//
// return:
//
//	slice of `R`s. each element indexed `N` is given with `mapper(sli[N])` .
func Map[T any, R any](sli []T, mapper func(v T) R) []R {
	ret := make([]R, len(sli))
	for nth, v := range sli {
		ret[nth] = mapper(v)
	}
	return ret
}

// Mode returns the most frequent element in sli.
//
// Ties are broken by first occurrence. Zero value for an empty slice.
func Mode[T comparable](sli []T) T {
	counts := map[T]int{}
	for _, v := range sli {
		counts[v]++
	}

	best := *new(T)
	bestCount := 0
	for _, v := range sli {
		if c := counts[v]; bestCount < c {
			best = v
			bestCount = c
		}
	}
	return best
}
