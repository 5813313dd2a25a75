package model

import (
	"fmt"
	"sort"
	"strings"
)

// TreeConfig bounds regression-tree growth.
type TreeConfig struct {
	MaxDepth        int
	MinSamplesLeaf  int
	MinSamplesSplit int
}

// DefaultTreeConfig suits small datasets like the builtin one.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{MaxDepth: 4, MinSamplesLeaf: 3, MinSamplesSplit: 6}
}

// RegressionTree is a CART regression tree: binary splits chosen to minimize
// the summed squared residuals of the two children, leaves predicting the
// training mean. Predictions therefore never leave the observed target range.
type RegressionTree struct {
	Target string
	Terms  []string
	cfg    TreeConfig
	root   *treeNode
}

type treeNode struct {
	n    int
	dev  float64 // sum of squared deviations from the node mean
	mean float64

	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

func (nd *treeNode) leaf() bool { return nd.left == nil }

// FitTree grows a regression tree on the training rows of the design and
// predicts the held-out rows.
func FitTree(d *Design, target string, s *Split, cfg TreeConfig) (*RegressionTree, []float64, error) {
	Xtrain, ytrain := d.Rows(s.Train)
	if len(Xtrain) == 0 {
		return nil, nil, fmt.Errorf("tree: no training rows")
	}
	t := &RegressionTree{Target: target, Terms: d.Terms, cfg: cfg}
	idx := make([]int, len(Xtrain))
	for i := range idx {
		idx[i] = i
	}
	t.root = t.grow(Xtrain, ytrain, idx, 0)

	Xtest, _ := d.Rows(s.Test)
	preds := make([]float64, len(Xtest))
	for i, row := range Xtest {
		preds[i] = t.Predict(row)
	}
	return t, preds, nil
}

func (t *RegressionTree) grow(X [][]float64, y []float64, idx []int, depth int) *treeNode {
	nd := &treeNode{n: len(idx)}
	for _, i := range idx {
		nd.mean += y[i]
	}
	nd.mean /= float64(len(idx))
	for _, i := range idx {
		d := y[i] - nd.mean
		nd.dev += d * d
	}

	if depth >= t.cfg.MaxDepth || len(idx) < t.cfg.MinSamplesSplit || nd.dev == 0 {
		return nd
	}

	feature, threshold, gain := t.bestSplit(X, y, idx, nd.dev)
	if gain <= 0 {
		return nd
	}
	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	nd.feature = feature
	nd.threshold = threshold
	nd.left = t.grow(X, y, left, depth+1)
	nd.right = t.grow(X, y, right, depth+1)
	return nd
}

// bestSplit scans every feature and every midpoint between adjacent distinct
// values, scoring by the reduction in summed squared error.
func (t *RegressionTree) bestSplit(X [][]float64, y []float64, idx []int, nodeDev float64) (feature int, threshold, gain float64) {
	feature = -1
	order := make([]int, len(idx))

	for j := range t.Terms {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return X[order[a]][j] < X[order[b]][j] })

		// Running left-side sums; right side follows from the totals.
		var sumL, sumSqL float64
		var sumT, sumSqT float64
		for _, i := range order {
			sumT += y[i]
			sumSqT += y[i] * y[i]
		}
		n := len(order)
		for k := 0; k < n-1; k++ {
			i := order[k]
			sumL += y[i]
			sumSqL += y[i] * y[i]
			nl := k + 1
			nr := n - nl
			if X[order[k]][j] == X[order[k+1]][j] {
				continue // no boundary between equal values
			}
			if nl < t.cfg.MinSamplesLeaf || nr < t.cfg.MinSamplesLeaf {
				continue
			}
			sumR := sumT - sumL
			sumSqR := sumSqT - sumSqL
			sseL := sumSqL - sumL*sumL/float64(nl)
			sseR := sumSqR - sumR*sumR/float64(nr)
			if g := nodeDev - (sseL + sseR); g > gain {
				gain = g
				feature = j
				threshold = (X[order[k]][j] + X[order[k+1]][j]) / 2
			}
		}
	}
	return feature, threshold, gain
}

// Predict walks one design row down to a leaf mean.
func (t *RegressionTree) Predict(row []float64) float64 {
	nd := t.root
	for !nd.leaf() {
		if row[nd.feature] <= nd.threshold {
			nd = nd.left
		} else {
			nd = nd.right
		}
	}
	return nd.mean
}

// String renders the tree structure: split rules, node sizes, deviance and
// leaf predictions.
func (t *RegressionTree) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Regression tree for %s\n", t.Target)
	t.dump(&b, t.root, "root", 0)
	return b.String()
}

func (t *RegressionTree) dump(b *strings.Builder, nd *treeNode, rule string, depth int) {
	indent := strings.Repeat("  ", depth)
	marker := ""
	if nd.leaf() {
		marker = " *"
	}
	fmt.Fprintf(b, "%s%s  n=%d dev=%.2f pred=%.3f%s\n", indent, rule, nd.n, nd.dev, nd.mean, marker)
	if nd.leaf() {
		return
	}
	name := t.Terms[nd.feature]
	t.dump(b, nd.left, fmt.Sprintf("%s <= %.4g", name, nd.threshold), depth+1)
	t.dump(b, nd.right, fmt.Sprintf("%s >  %.4g", name, nd.threshold), depth+1)
}
