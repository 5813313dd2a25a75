// Package model holds the predictive stage: a seeded stratified train/test
// split and two independent models (ordinary least squares and a regression
// tree) fit on the training rows and scored on the held-out rows.
package model

import (
	"fmt"
	"math/rand"
	"sort"
)

// Split is an exact partition of row indices: every row appears in exactly
// one of the two sides.
type Split struct {
	Train []int
	Test  []int
}

// splitStrata is how many target-quantile bins the stratified sampler uses.
const splitStrata = 5

// StratifiedSplit partitions rows into train/test by trainFrac, stratified on
// the target's distribution: rows are ordered by target value, chunked into
// quantile bins, and sampled within each bin. A fixed seed reproduces the
// same partition.
func StratifiedSplit(y []float64, trainFrac float64, seed int64) (*Split, error) {
	n := len(y)
	if n < splitStrata {
		return nil, fmt.Errorf("split: %d rows is too few to stratify", n)
	}
	if trainFrac <= 0 || trainFrac >= 1 {
		return nil, fmt.Errorf("split: train fraction %v out of (0,1)", trainFrac)
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return y[order[a]] < y[order[b]] })

	rng := rand.New(rand.NewSource(seed))
	s := &Split{}
	testFrac := 1 - trainFrac
	carry := 0.0

	binSize := (n + splitStrata - 1) / splitStrata
	for start := 0; start < n; start += binSize {
		end := start + binSize
		if end > n {
			end = n
		}
		stratum := append([]int(nil), order[start:end]...)
		rng.Shuffle(len(stratum), func(i, j int) {
			stratum[i], stratum[j] = stratum[j], stratum[i]
		})

		// Error diffusion keeps the overall test share at testFrac even when
		// bins don't divide evenly.
		want := testFrac*float64(len(stratum)) + carry
		take := int(want)
		carry = want - float64(take)

		s.Test = append(s.Test, stratum[:take]...)
		s.Train = append(s.Train, stratum[take:]...)
	}
	sort.Ints(s.Train)
	sort.Ints(s.Test)
	return s, nil
}
