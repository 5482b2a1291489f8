package irsignal

import (
	"math"
	"sort"
)

// Clean returns a copy of seq where durations that are equal under tol are
// replaced by one canonical value.
//
// Distinct durations are sorted and grouped greedily: a value joins the
// current group while it equals the group's first (smallest) member under
// tol. Each group is then replaced by the average of its members, weighted
// by how often each occurs and rounded to whole microseconds. A group with a
// single distinct value keeps that value exactly, so a zero tolerance leaves
// the sequence untouched.
//
// Averaging can bring two group values within tolerance of each other, so
// the grouping is repeated until no group merges anything. Cleaning a
// cleaned sequence therefore returns it unchanged.
func Clean(seq Sequence, tol Tolerance) Sequence {
	out := seq.Clone()
	for {
		table, merged := buildTimings(out.Durations, tol)
		if !merged {
			return out
		}
		for i, d := range out.Durations {
			out.Durations[i] = table[d]
		}
	}
}

// TimingsTable returns the sorted canonical durations Clean would map seq onto.
func TimingsTable(seq Sequence, tol Tolerance) []float64 {
	cleaned := Clean(seq, tol)
	seen := make(map[float64]struct{}, 16)
	timings := make([]float64, 0, 16)
	for _, d := range cleaned.Durations {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		timings = append(timings, d)
	}
	sort.Float64s(timings)
	return timings
}

// buildTimings maps every distinct duration onto its group value. merged
// reports whether any group holds more than one distinct duration.
func buildTimings(durations []float64, tol Tolerance) (map[float64]float64, bool) {
	histogram := make(map[float64]int, 16)
	for _, d := range durations {
		histogram[d]++
	}
	distinct := make([]float64, 0, len(histogram))
	for d := range histogram {
		distinct = append(distinct, d)
	}
	sort.Float64s(distinct)

	table := make(map[float64]float64, len(distinct))
	merged := false
	for i := 0; i < len(distinct); {
		leader := distinct[i]
		weighted, terms := float64(histogram[leader])*leader, histogram[leader]
		j := i + 1
		for j < len(distinct) && tol.Equal(leader, distinct[j]) {
			n := histogram[distinct[j]]
			weighted += float64(n) * distinct[j]
			terms += n
			j++
		}
		value := leader
		if j-i > 1 {
			merged = true
			value = math.Round(weighted / float64(terms))
		}
		for _, d := range distinct[i:j] {
			table[d] = value
		}
		i = j
	}
	return table, merged
}
