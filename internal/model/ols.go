package model

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// OLSResult reports an ordinary-least-squares fit on the training rows.
type OLSResult struct {
	Target string
	Terms  []string // "(intercept)" first, then design terms
	Coef   []float64
	StdErr []float64
	TStat  []float64

	R2      float64
	AdjR2   float64
	F       float64
	FP      float64
	DFModel int
	DFResid int

	TestPred []float64 // predictions on the held-out rows, split order
}

// FitOLS solves the normal equations on the training rows of the design and
// predicts the held-out rows. A collinear design surfaces the underlying
// matrix error.
func FitOLS(d *Design, target string, s *Split) (*OLSResult, error) {
	Xtrain, ytrain := d.Rows(s.Train)
	n := len(Xtrain)
	p := len(d.Terms) + 1 // intercept
	if n <= p {
		return nil, fmt.Errorf("ols: %d training rows for %d coefficients", n, p)
	}

	flat := make([]float64, 0, n*p)
	for _, row := range Xtrain {
		flat = append(flat, 1)
		flat = append(flat, row...)
	}
	X := mat.NewDense(n, p, flat)
	y := mat.NewVecDense(n, ytrain)

	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("ols: singular design (collinear predictors?): %w", err)
	}
	var xty mat.VecDense
	xty.MulVec(X.T(), y)
	var beta mat.VecDense
	beta.MulVec(&inv, &xty)

	// Residual and total sums of squares on the training rows.
	var fitted mat.VecDense
	fitted.MulVec(X, &beta)
	meanY := 0.0
	for _, v := range ytrain {
		meanY += v
	}
	meanY /= float64(n)
	var rss, tss float64
	for i := 0; i < n; i++ {
		r := ytrain[i] - fitted.AtVec(i)
		rss += r * r
		dv := ytrain[i] - meanY
		tss += dv * dv
	}
	if tss == 0 {
		return nil, fmt.Errorf("ols: target %q is constant on the training rows", target)
	}

	dfModel := p - 1
	dfResid := n - p
	sigma2 := rss / float64(dfResid)

	res := &OLSResult{
		Target:  target,
		Terms:   append([]string{"(intercept)"}, d.Terms...),
		Coef:    make([]float64, p),
		StdErr:  make([]float64, p),
		TStat:   make([]float64, p),
		R2:      1 - rss/tss,
		DFModel: dfModel,
		DFResid: dfResid,
	}
	res.AdjR2 = 1 - (1-res.R2)*float64(n-1)/float64(dfResid)
	for j := 0; j < p; j++ {
		res.Coef[j] = beta.AtVec(j)
		res.StdErr[j] = math.Sqrt(sigma2 * inv.At(j, j))
		if res.StdErr[j] > 0 {
			res.TStat[j] = res.Coef[j] / res.StdErr[j]
		}
	}
	res.F = ((tss - rss) / float64(dfModel)) / sigma2
	fdist := distuv.F{D1: float64(dfModel), D2: float64(dfResid)}
	res.FP = 1 - fdist.CDF(res.F)

	Xtest, _ := d.Rows(s.Test)
	res.TestPred = make([]float64, len(Xtest))
	for i, row := range Xtest {
		pred := res.Coef[0]
		for j, v := range row {
			pred += res.Coef[j+1] * v
		}
		res.TestPred[i] = pred
	}
	return res, nil
}

// Summary renders the coefficient table and fit statistics.
func (r *OLSResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Linear regression: %s ~ %s\n", r.Target, strings.Join(r.Terms[1:], " + "))
	fmt.Fprintf(&b, "%-14s %12s %12s %8s\n", "term", "coef", "std err", "t")
	for i, term := range r.Terms {
		fmt.Fprintf(&b, "%-14s %12.4f %12.4f %8.3f\n", term, r.Coef[i], r.StdErr[i], r.TStat[i])
	}
	fmt.Fprintf(&b, "R2 = %.4f (adjusted %.4f), F(%d,%d) = %.3f, p = %.4g\n",
		r.R2, r.AdjR2, r.DFModel, r.DFResid, r.F, r.FP)
	return b.String()
}
