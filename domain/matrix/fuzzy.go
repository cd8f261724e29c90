package matrix

import "sort"

// FuzzySets maps each 0-based class to the classes acceptable as fuzzy
// agreement for it
type FuzzySets map[int][]int

// DefaultFuzzySets builds the one-class adjacency window: the first class
// accepts itself and its upper neighbor, the last itself and its lower
// neighbor, interior classes all three.
func DefaultFuzzySets(n int) FuzzySets {
	sets := make(FuzzySets, n)
	for i := 0; i < n; i++ {
		switch {
		case n == 1:
			sets[i] = []int{0}
		case i == 0:
			sets[i] = []int{0, 1}
		case i == n-1:
			sets[i] = []int{n - 2, n - 1}
		default:
			sets[i] = []int{i - 1, i, i + 1}
		}
	}
	return sets
}

// NormalizeFuzzySets prepares explicit declarations for use over n classes:
// out-of-range entries are dropped, each class accepts itself, classes with
// no declaration accept only themselves, and members are deduplicated in
// ascending order. A nil input yields the default window.
func NormalizeFuzzySets(n int, explicit FuzzySets) FuzzySets {
	if explicit == nil {
		return DefaultFuzzySets(n)
	}
	sets := make(FuzzySets, n)
	for i := 0; i < n; i++ {
		members := map[int]bool{i: true}
		for _, j := range explicit[i] {
			if j >= 0 && j < n {
				members[j] = true
			}
		}
		list := make([]int, 0, len(members))
		for j := range members {
			list = append(list, j)
		}
		sort.Ints(list)
		sets[i] = list
	}
	return sets
}

// OffDiagonalPairs lists the (observed, fuzzy) index pairs where a class
// accepts a different class, the cells shaded as fuzzy matches in matrix
// tables
func (s FuzzySets) OffDiagonalPairs() [][2]int {
	classes := make([]int, 0, len(s))
	for c := range s {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	var pairs [][2]int
	for _, c := range classes {
		for _, f := range s[c] {
			if f != c {
				pairs = append(pairs, [2]int{c, f})
			}
		}
	}
	return pairs
}
