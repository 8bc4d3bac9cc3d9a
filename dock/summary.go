package dock

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary contains statistics over a set of assignments.
type Summary struct {
	Counts map[string]int //ligands per label
	N      int            //assignments with a measured distance
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Labels returns the labels in the summary, sorted.
func (S *Summary) Labels() []string {
	ret := make([]string, 0, len(S.Counts))
	for k := range S.Counts {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

func (S *Summary) String() string {
	var b strings.Builder
	for _, l := range S.Labels() {
		fmt.Fprintf(&b, "%-8s %d\n", l, S.Counts[l])
	}
	if S.N > 0 {
		fmt.Fprintf(&b, "distance: mean %.3f sd %.3f min %.3f max %.3f (%d)\n", S.Mean, S.StdDev, S.Min, S.Max, S.N)
	}
	return b.String()
}

// Distances returns the distances of the assignments that have one.
func Distances(assignments []Assignment) []float64 {
	ret := make([]float64, 0, len(assignments))
	for _, a := range assignments {
		if a.ReceptorAtom > 0 {
			ret = append(ret, a.Distance)
		}
	}
	return ret
}

// Summarize counts the assignments for each label and computes statistics
// of the ligand-site distances. The standard deviation is 0 for less than 2 distances.
func Summarize(assignments []Assignment) *Summary {
	S := &Summary{Counts: make(map[string]int)}
	for _, a := range assignments {
		S.Counts[a.Label]++
	}
	d := Distances(assignments)
	S.N = len(d)
	if S.N == 0 {
		return S
	}
	S.Min = floats.Min(d)
	S.Max = floats.Max(d)
	if S.N == 1 {
		S.Mean = d[0]
		return S
	}
	S.Mean, S.StdDev = stat.MeanStdDev(d, nil)
	return S
}
